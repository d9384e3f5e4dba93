//go:build e2e

package e2e

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cucumber/godog"
)

// InitializeScenario gives every scenario a fresh TestContext.
func InitializeScenario(sc *godog.ScenarioContext) {
	tc := NewTestContext()

	sc.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		*tc = *NewTestContext()
		return ctx, nil
	})
	sc.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if err != nil {
			fmt.Printf("Scenario failed: %s\nLast Response: %s\n", sc.Name, string(tc.LastResponseBody))
		}
		return ctx, nil
	})

	RegisterSteps(sc, tc)
}

// RegisterSteps registers all step definitions.
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	ctx.Step(`^the onboarding service is running$`, tc.serviceIsRunning)
	ctx.Step(`^I start a new form$`, tc.startForm)
	ctx.Step(`^I use form ID "([^"]*)"$`, tc.useFormID)

	ctx.Step(`^I set "([^"]*)" to "([^"]*)"$`, tc.setField)
	ctx.Step(`^I leave "([^"]*)"$`, tc.blurField)
	ctx.Step(`^I fill in a valid profile$`, tc.fillValidProfile)
	ctx.Step(`^I submit the form$`, tc.submitForm)
	ctx.Step(`^I fetch the form$`, tc.fetchForm)

	ctx.Step(`^the response status should be (\d+)$`, tc.responseStatusShouldBe)
	ctx.Step(`^the stored "([^"]*)" should be "([^"]*)"$`, tc.storedValueShouldBe)
	ctx.Step(`^the "([^"]*)" error should be "([^"]*)"$`, tc.fieldErrorShouldBe)
	ctx.Step(`^the form should have no errors$`, tc.formShouldHaveNoErrors)
	ctx.Step(`^the submission should be accepted$`, tc.submissionShouldBeAccepted)
	ctx.Step(`^the submission should be refused$`, tc.submissionShouldBeRefused)
}

func (tc *TestContext) serviceIsRunning(_ context.Context) error {
	if err := tc.Do(http.MethodGet, "/health/live", nil); err != nil {
		return err
	}
	return tc.responseStatusShouldBe(context.Background(), http.StatusOK)
}

func (tc *TestContext) startForm(ctx context.Context) error {
	if err := tc.Do(http.MethodPost, "/onboarding/forms", nil); err != nil {
		return err
	}
	if err := tc.responseStatusShouldBe(ctx, http.StatusCreated); err != nil {
		return err
	}
	form, err := tc.LastForm()
	if err != nil {
		return err
	}
	tc.FormID = form.ID
	return nil
}

func (tc *TestContext) useFormID(_ context.Context, formID string) error {
	tc.FormID = formID
	return nil
}

func (tc *TestContext) setField(_ context.Context, field, value string) error {
	return tc.Do(http.MethodPut, tc.formPath("/fields/"+field), map[string]string{"value": value})
}

func (tc *TestContext) blurField(_ context.Context, field string) error {
	return tc.Do(http.MethodPost, tc.formPath("/fields/"+field+"/blur?wait=true"), nil)
}

func (tc *TestContext) fillValidProfile(ctx context.Context) error {
	values := [][2]string{
		{"firstName", "Ada"},
		{"lastName", "Lovelace"},
		{"phone", "4165550123"},
		{"corporationNumber", "123456789"},
	}
	for _, v := range values {
		if err := tc.setField(ctx, v[0], v[1]); err != nil {
			return err
		}
	}
	return tc.blurField(ctx, "corporationNumber")
}

func (tc *TestContext) submitForm(_ context.Context) error {
	return tc.Do(http.MethodPost, tc.formPath("/submit?wait=true"), nil)
}

func (tc *TestContext) fetchForm(_ context.Context) error {
	return tc.Do(http.MethodGet, tc.formPath("?wait=true"), nil)
}

func (tc *TestContext) responseStatusShouldBe(_ context.Context, expectedStatus int) error {
	if tc.LastResponse == nil {
		return fmt.Errorf("no response recorded")
	}
	if tc.LastResponse.StatusCode != expectedStatus {
		return fmt.Errorf("expected status %d but got %d", expectedStatus, tc.LastResponse.StatusCode)
	}
	return nil
}

func (tc *TestContext) storedValueShouldBe(_ context.Context, field, expected string) error {
	form, err := tc.LastForm()
	if err != nil {
		return err
	}
	if got := form.Values[field]; got != expected {
		return fmt.Errorf("%s: expected %q but got %q", field, expected, got)
	}
	return nil
}

func (tc *TestContext) fieldErrorShouldBe(_ context.Context, field, expected string) error {
	form, err := tc.LastForm()
	if err != nil {
		return err
	}
	got, ok := form.Errors[field]
	if !ok {
		return fmt.Errorf("no error on %s; errors: %v", field, form.Errors)
	}
	if got != expected {
		return fmt.Errorf("%s error: expected %q but got %q", field, expected, got)
	}
	return nil
}

func (tc *TestContext) formShouldHaveNoErrors(_ context.Context) error {
	form, err := tc.LastForm()
	if err != nil {
		return err
	}
	if len(form.Errors) > 0 {
		return fmt.Errorf("expected no errors but got %v", form.Errors)
	}
	return nil
}

func (tc *TestContext) submissionShouldBeAccepted(_ context.Context) error {
	submit, err := tc.LastSubmit()
	if err != nil {
		return err
	}
	if !submit.Submitted || !submit.Form.Submitted {
		return fmt.Errorf("expected an accepted submission; errors: %v", submit.Form.Errors)
	}
	return nil
}

func (tc *TestContext) submissionShouldBeRefused(_ context.Context) error {
	submit, err := tc.LastSubmit()
	if err != nil {
		return err
	}
	if submit.Submitted {
		return fmt.Errorf("expected the submission to be refused")
	}
	return nil
}
