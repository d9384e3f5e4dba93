package tracer

// KeyValue exposes the attribute conversion to the external test package.
var KeyValue = keyValue
