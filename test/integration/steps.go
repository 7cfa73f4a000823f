//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cucumber/godog"

	"github.com/doodlesbykumbi/cms-in-go/pkg/fixtures"
	"github.com/doodlesbykumbi/cms-in-go/pkg/identity"
	"github.com/doodlesbykumbi/cms-in-go/pkg/model"
	"github.com/doodlesbykumbi/cms-in-go/pkg/server/endpoints"
)

// StepsContext holds state shared between step definitions
type StepsContext struct {
	tc           *TestContext
	loader       *fixtures.Loader
	response     *http.Response
	responseBody []byte
	authToken    string
}

// NewStepsContext creates a new steps context
func NewStepsContext(tc *TestContext) *StepsContext {
	types := fixtures.NewTypeRegistry(fixtures.CMSNamespace)
	fixtures.RegisterCMSTypes(types)

	return &StepsContext{
		tc:     tc,
		loader: fixtures.NewLoader(fixtures.NewGormStore(tc.DB), types).WithSilent(true),
	}
}

// RegisterSteps registers all step definitions
func (s *StepsContext) RegisterSteps(sc *godog.ScenarioContext) {
	sc.Step(`^a CMS server is running$`, s.aCMSServerIsRunning)
	sc.Step(`^the following fixtures are loaded:$`, s.theFollowingFixturesAreLoaded)
	sc.Step(`^I am authenticated as "([^"]*)"$`, s.iAmAuthenticatedAs)

	sc.Step(`^I submit the form "([^"]*)" with:$`, s.iSubmitTheFormWith)
	sc.Step(`^I request the entries of form "([^"]*)" as JSON$`, s.iRequestTheEntriesOfFormAsJSON)
	sc.Step(`^I request the entries of form "([^"]*)"$`, s.iRequestTheEntriesOfForm)

	sc.Step(`^the response status should be (\d+)$`, s.theResponseStatusShouldBe)
	sc.Step(`^I should be redirected to "([^"]*)"$`, s.iShouldBeRedirectedTo)
	sc.Step(`^the response body should contain "([^"]*)"$`, s.theResponseBodyShouldContain)
	sc.Step(`^the response should list (\d+) entr(?:y|ies)$`, s.theResponseShouldListEntries)

	sc.Step(`^form "([^"]*)" should have (\d+) entr(?:y|ies)$`, s.formShouldHaveEntries)
	sc.Step(`^(\d+) email messages? should be addressed to "([^"]*)"$`, s.emailMessagesShouldBeAddressedTo)
	sc.Step(`^the email to "([^"]*)" should link to the newest entry of form "([^"]*)"$`, s.theEmailShouldLinkToNewestEntry)
}

func (s *StepsContext) aCMSServerIsRunning() error {
	return nil
}

func (s *StepsContext) theFollowingFixturesAreLoaded(doc *godog.DocString) error {
	_, err := s.loader.LoadFromString(context.Background(), doc.Content)
	return err
}

func (s *StepsContext) iAmAuthenticatedAs(subject string) error {
	token, err := identity.IssueToken(s.tc.TokenSecret, subject, time.Hour, time.Now())
	if err != nil {
		return err
	}
	s.authToken = token
	return nil
}

func (s *StepsContext) formID(name string) (uint, error) {
	id, ok := s.loader.Ref("forms", name)
	if !ok {
		return 0, fmt.Errorf("no form fixture named %q", name)
	}
	return id, nil
}

func (s *StepsContext) do(req *http.Request) error {
	if s.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.authToken)
	}

	resp, err := s.tc.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	s.response = resp

	s.responseBody, err = io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return err
}

func (s *StepsContext) iSubmitTheFormWith(name string, table *godog.Table) error {
	id, err := s.formID(name)
	if err != nil {
		return err
	}

	values := url.Values{}
	for _, row := range table.Rows {
		if len(row.Cells) != 2 {
			return fmt.Errorf("expected field and value columns, got %d", len(row.Cells))
		}
		values.Set(fmt.Sprintf("form_entry[%s]", row.Cells[0].Value), row.Cells[1].Value)
	}

	reqURL := fmt.Sprintf("%s/forms/%d/submit", s.tc.ServerURL, id)
	req, err := http.NewRequest(http.MethodPost, reqURL, strings.NewReader(values.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.do(req)
}

func (s *StepsContext) requestEntries(name, accept string) error {
	id, err := s.formID(name)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s/forms/%d/entries", s.tc.ServerURL, id), nil)
	if err != nil {
		return err
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	return s.do(req)
}

func (s *StepsContext) iRequestTheEntriesOfFormAsJSON(name string) error {
	return s.requestEntries(name, "application/json")
}

func (s *StepsContext) iRequestTheEntriesOfForm(name string) error {
	return s.requestEntries(name, "")
}

func (s *StepsContext) theResponseStatusShouldBe(status int) error {
	if s.response == nil {
		return fmt.Errorf("no response received")
	}
	if s.response.StatusCode != status {
		return fmt.Errorf("expected status %d, got %d: %s", status, s.response.StatusCode, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) iShouldBeRedirectedTo(location string) error {
	if err := s.theResponseStatusShouldBe(http.StatusFound); err != nil {
		return err
	}
	if got := s.response.Header.Get("Location"); got != location {
		return fmt.Errorf("expected redirect to %q, got %q", location, got)
	}
	return nil
}

func (s *StepsContext) theResponseBodyShouldContain(text string) error {
	if !strings.Contains(string(s.responseBody), text) {
		return fmt.Errorf("expected response body to contain %q, got: %s", text, string(s.responseBody))
	}
	return nil
}

func (s *StepsContext) theResponseShouldListEntries(count int) error {
	var list endpoints.EntryListResponse
	if err := json.Unmarshal(s.responseBody, &list); err != nil {
		return fmt.Errorf("failed to decode entry list: %w", err)
	}
	if len(list.Rows) != count {
		return fmt.Errorf("expected %d entries, got %d", count, len(list.Rows))
	}
	return nil
}

func (s *StepsContext) formShouldHaveEntries(name string, count int) error {
	id, err := s.formID(name)
	if err != nil {
		return err
	}

	var n int64
	if err := s.tc.DB.Model(&model.FormEntry{}).Where("form_id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n != int64(count) {
		return fmt.Errorf("expected %d entries for form %q, got %d", count, name, n)
	}
	return nil
}

func (s *StepsContext) emailMessagesShouldBeAddressedTo(count int, recipient string) error {
	var n int64
	if err := s.tc.DB.Model(&model.EmailMessage{}).Where("recipients = ?", recipient).Count(&n).Error; err != nil {
		return err
	}
	if n != int64(count) {
		return fmt.Errorf("expected %d messages to %s, got %d", count, recipient, n)
	}
	return nil
}

func (s *StepsContext) theEmailShouldLinkToNewestEntry(recipient, name string) error {
	id, err := s.formID(name)
	if err != nil {
		return err
	}

	var entry model.FormEntry
	if err := s.tc.DB.Where("form_id = ?", id).Order("id desc").First(&entry).Error; err != nil {
		return err
	}

	var msg model.EmailMessage
	if err := s.tc.DB.Where("recipients = ?", recipient).Order("id desc").First(&msg).Error; err != nil {
		return err
	}

	want := fmt.Sprintf("%s/form_entries/%d", s.tc.ServerURL, entry.ID)
	if !strings.Contains(msg.Body, want) {
		return fmt.Errorf("expected message body to contain %s, got: %s", want, msg.Body)
	}
	return nil
}
