package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/cucumber/godog"

	"github.com/foliodocs/folio-core/internal/core/domain"
	"github.com/foliodocs/folio-core/internal/core/ports/driving"
)

// ingestionWorld carries one scenario's state between steps.
type ingestionWorld struct {
	fixture *ingestionFixture
	plan    string

	doc *domain.Document
	err error
}

func (w *ingestionWorld) reset(*godog.Scenario) {
	w.fixture = newIngestionFixture()
	w.plan = "free"
	w.doc = nil
	w.err = nil
}

func (w *ingestionWorld) aTeamOnThePlan(plan string) error {
	w.plan = plan
	return nil
}

func (w *ingestionWorld) theNotionPageIsPublic(pageURL string) error {
	w.fixture.notion.AddPage(pageURL, "01234567-89ab-cdef-0123-456789abcdef")
	return nil
}

func (w *ingestionWorld) theBlocklistContains(keyword string) error {
	w.fixture.blocklist.SetKeywords(keyword)
	return nil
}

func (w *ingestionWorld) theConversionQueueIsDown() error {
	w.fixture.queue.TriggerErr = errors.New("queue unavailable")
	return nil
}

func (w *ingestionWorld) create(req driving.CreateDocumentRequest) error {
	req.TeamID = "team-1"
	req.TeamPlan = w.plan
	req.UserID = "user-1"
	w.doc, w.err = w.fixture.orchestrator.CreateDocument(context.Background(), req)
	return nil
}

func (w *ingestionWorld) aMemberUploadsWithContentType(name, contentType string) error {
	return w.create(driving.CreateDocumentRequest{
		Payload: domain.DocumentPayload{
			Name:        name,
			Key:         "team-1/doc_abc/" + name,
			StorageType: domain.StorageTypePath,
			ContentType: contentType,
		},
	})
}

func (w *ingestionWorld) aMemberSubmitsTheNotionPage(pageURL string) error {
	return w.create(driving.CreateDocumentRequest{
		Payload: domain.DocumentPayload{
			Name:        "notion page",
			Key:         pageURL,
			StorageType: domain.StorageTypeBlob,
			ContentType: "text/html",
			Type:        domain.TypeNotion,
		},
	})
}

func (w *ingestionWorld) aMemberSubmitsTheLink(linkURL string) error {
	return w.create(driving.CreateDocumentRequest{
		Payload: domain.DocumentPayload{
			Name:        "shared link",
			Key:         linkURL,
			StorageType: domain.StorageTypeBlob,
			Type:        domain.TypeLink,
		},
	})
}

func (w *ingestionWorld) theConversionIsDispatchedAgain() error {
	if w.doc == nil || len(w.doc.Versions) == 0 {
		return errors.New("no committed document to re-dispatch")
	}
	return w.fixture.orchestrator.dispatcher.DispatchForVersion(
		context.Background(), w.doc, w.doc.Versions[0], w.plan)
}

func (w *ingestionWorld) theDocumentIsCreatedWithOnePrimaryVersion() error {
	if w.err != nil {
		return fmt.Errorf("creation failed: %w", w.err)
	}
	if w.doc == nil {
		return errors.New("no document returned")
	}
	if len(w.doc.Versions) != 1 {
		return fmt.Errorf("expected 1 version, got %d", len(w.doc.Versions))
	}
	v := w.doc.Versions[0]
	if v.VersionNumber != 1 || !v.IsPrimary {
		return fmt.Errorf("expected version 1 to be primary, got number=%d primary=%t", v.VersionNumber, v.IsPrimary)
	}
	return nil
}

func (w *ingestionWorld) aTaskIsQueuedOn(kind, queue string) error {
	for _, tr := range w.fixture.queue.Triggered() {
		if string(tr.Task.Kind) == kind && tr.Options.Queue == queue {
			return nil
		}
	}
	return fmt.Errorf("no %s task on %s", kind, queue)
}

func (w *ingestionWorld) theUploadIsRejectedBecauseThePageIsNotPublic() error {
	if !errors.Is(w.err, domain.ErrPageNotPublic) {
		return fmt.Errorf("expected page-not-public rejection, got %v", w.err)
	}
	return nil
}

func (w *ingestionWorld) theUploadIsRejectedBecauseTheLinkTargetIsBlocked() error {
	if !errors.Is(w.err, domain.ErrLinkBlocked) {
		return fmt.Errorf("expected blocked-link rejection, got %v", w.err)
	}
	return nil
}

func (w *ingestionWorld) noDocumentIsCreated() error {
	if w.fixture.store.CreateCalls != 0 {
		return fmt.Errorf("expected no commits, got %d", w.fixture.store.CreateCalls)
	}
	return nil
}

func (w *ingestionWorld) exactlyOneConversionTaskIsQueued() error {
	if n := len(w.fixture.queue.Triggered()); n != 1 {
		return fmt.Errorf("expected exactly 1 queued task, got %d", n)
	}
	return nil
}

func initializeIngestionScenarios(sc *godog.ScenarioContext) {
	w := &ingestionWorld{}
	sc.Before(func(ctx context.Context, s *godog.Scenario) (context.Context, error) {
		w.reset(s)
		return ctx, nil
	})

	sc.Given(`^a team on the "([^"]*)" plan$`, w.aTeamOnThePlan)
	sc.Given(`^the notion page "([^"]*)" is public$`, w.theNotionPageIsPublic)
	sc.Given(`^the blocklist contains "([^"]*)"$`, w.theBlocklistContains)
	sc.Given(`^the conversion queue is down$`, w.theConversionQueueIsDown)

	sc.When(`^a member uploads "([^"]*)" with content type "([^"]*)"$`, w.aMemberUploadsWithContentType)
	sc.When(`^a member submits the notion page "([^"]*)"$`, w.aMemberSubmitsTheNotionPage)
	sc.When(`^a member submits the link "([^"]*)"$`, w.aMemberSubmitsTheLink)
	sc.When(`^the conversion is dispatched again for the same version$`, w.theConversionIsDispatchedAgain)

	sc.Then(`^the document is created with one primary version$`, w.theDocumentIsCreatedWithOnePrimaryVersion)
	sc.Then(`^a "([^"]*)" task is queued on "([^"]*)"$`, w.aTaskIsQueuedOn)
	sc.Then(`^the upload is rejected because the page is not public$`, w.theUploadIsRejectedBecauseThePageIsNotPublic)
	sc.Then(`^the upload is rejected because the link target is blocked$`, w.theUploadIsRejectedBecauseTheLinkTargetIsBlocked)
	sc.Then(`^no document is created$`, w.noDocumentIsCreated)
	sc.Then(`^exactly one conversion task is queued$`, w.exactlyOneConversionTaskIsQueued)
}

func TestIngestionFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: initializeIngestionScenarios,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
			Strict:   true,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("ingestion feature suite failed")
	}
}
