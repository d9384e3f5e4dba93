package handler

import (
	"onboard/internal/onboarding/orchestrator"
	id "onboard/pkg/domain"
)

// FormResponse is a form's view plus its ID.
type FormResponse struct {
	ID string `json:"id"`
	orchestrator.View
}

type SubmitResponse struct {
	Submitted bool         `json:"submitted"`
	Form      FormResponse `json:"form"`
}

func newFormResponse(formID id.FormID, view orchestrator.View) FormResponse {
	return FormResponse{ID: formID.String(), View: view}
}
