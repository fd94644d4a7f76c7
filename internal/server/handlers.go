package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/soulscript/notionkit/internal/handlestore"
	"github.com/soulscript/notionkit/internal/platform/notion"
	"github.com/soulscript/notionkit/internal/provisioning"
	"github.com/soulscript/notionkit/internal/records"
	"github.com/soulscript/notionkit/internal/schema"
)

// StatusClientClosedRequest is returned when the caller went away mid-run.
const StatusClientClosedRequest = 499

const maxRunIDLength = 64

type setupRequest struct {
	ParentLocationID string `json:"parentLocationId"`
	TestOnly         bool   `json:"testOnly"`
	RunID            string `json:"runId"`
	Reuse            bool   `json:"reuse"`
}

type setupResponse struct {
	Success bool                      `json:"success"`
	Data    *setupData                `json:"data,omitempty"`
	Error   string                    `json:"error,omitempty"`
	Steps   []provisioning.StepStatus `json:"steps"`
	RunID   string                    `json:"runId,omitempty"`
}

type setupData struct {
	Account       notion.AccountInfo      `json:"account"`
	Workspace     *provisioning.Workspace `json:"workspace,omitempty"`
	Documentation []notion.Page           `json:"documentation,omitempty"`
	Samples       []sampleView            `json:"samples,omitempty"`
	Failures      []failureView           `json:"failures,omitempty"`
}

type sampleView struct {
	Kind records.Kind `json:"kind"`
	Page notion.Page  `json:"page"`
}

type failureView struct {
	Stage string `json:"stage"`
	Item  string `json:"item"`
	Error string `json:"error"`
}

type runResponse struct {
	RunID     string                    `json:"runId"`
	Done      bool                      `json:"done"`
	StartedAt time.Time                 `json:"startedAt"`
	Steps     []provisioning.StepStatus `json:"steps"`
}

func (s *Server) setup(c echo.Context) error {
	start := time.Now()
	status, resp := s.runSetup(c.Request().Context(), c)
	recordSetupRequest(status, time.Since(start).Seconds())
	if resp.Steps == nil {
		resp.Steps = []provisioning.StepStatus{}
	}
	return c.JSON(status, resp)
}

func (s *Server) runSetup(ctx context.Context, c echo.Context) (int, setupResponse) {
	var req setupRequest
	if err := c.Bind(&req); err != nil {
		return http.StatusBadRequest, setupResponse{Error: "invalid request body"}
	}

	runID := req.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	if len(runID) > maxRunIDLength {
		return http.StatusBadRequest, setupResponse{Error: "runId is too long"}
	}
	resp := setupResponse{RunID: runID}

	parentID := ""
	if req.ParentLocationID != "" || !req.TestOnly {
		id, err := notion.NormalizeID(req.ParentLocationID)
		if err != nil {
			resp.Error = err.Error()
			return http.StatusBadRequest, resp
		}
		parentID = id
	}
	log := s.log.WithValues("run", runID, "parent", parentID)

	tracker := provisioning.NewTracker()
	if err := s.runs.start(runID, parentID, tracker); err != nil {
		resp.Error = err.Error()
		return http.StatusConflict, resp
	}
	defer s.runs.finish(runID)

	opts := provisioning.Options{
		TestOnly:    req.TestOnly,
		Reuse:       req.Reuse,
		Concurrency: s.concurrency,
	}

	if !req.TestOnly {
		unlock, err := s.store.Lock(ctx, parentID)
		if errors.Is(err, handlestore.ErrLocked) {
			resp.Error = err.Error()
			return http.StatusConflict, resp
		}
		if err != nil {
			recordStoreError("lock")
			log.Error(err, "failed to lock parent location")
			resp.Error = "failed to lock parent location"
			return http.StatusInternalServerError, resp
		}
		defer func() {
			// The request context may already be cancelled.
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				recordStoreError("unlock")
				log.Error(err, "failed to release parent location lock")
			}
		}()

		existing, err := s.store.Load(ctx, parentID)
		if err != nil {
			recordStoreError("load")
			log.Error(err, "failed to load workspace handle")
			resp.Error = "failed to load workspace handle"
			return http.StatusInternalServerError, resp
		}
		opts.Existing = existing
	}

	log.Info("starting setup run", "testOnly", req.TestOnly, "resume", !opts.Existing.IsZero())
	result, runErr := s.runner.Run(ctx, parentID, tracker, opts)
	resp.Steps = tracker.History()

	if !req.TestOnly {
		s.saveHandle(ctx, log, parentID, opts.Existing, result, runErr)
	}

	if runErr != nil {
		log.Info("setup run failed", "error", runErr.Error())
		resp.Error = runErr.Error()
		return statusFor(runErr), resp
	}

	resp.Success = true
	resp.Data = newSetupData(result, req.TestOnly)
	log.Info("setup run finished", "failures", len(result.Failures))
	return http.StatusOK, resp
}

// saveHandle persists what the run created, including the handle carried by
// a partial failure, so the next run resumes.
func (s *Server) saveHandle(ctx context.Context, log logr.Logger, parentID string, existing provisioning.Workspace, result *provisioning.Result, runErr error) {
	ws := existing
	var partial *provisioning.PartialProvisioningError
	switch {
	case result != nil:
		ws = result.Workspace
	case errors.As(runErr, &partial):
		ws = partial.Handle
	}
	if ws == existing || ws.IsZero() {
		return
	}
	if err := s.store.Save(context.WithoutCancel(ctx), parentID, ws); err != nil {
		recordStoreError("save")
		log.Error(err, "failed to save workspace handle")
	}
}

func newSetupData(result *provisioning.Result, testOnly bool) *setupData {
	data := &setupData{Account: result.Account}
	if testOnly {
		return data
	}
	ws := result.Workspace
	data.Workspace = &ws
	data.Documentation = result.Documentation
	for _, sample := range result.Samples {
		data.Samples = append(data.Samples, sampleView(sample))
	}
	for _, f := range result.Failures {
		data.Failures = append(data.Failures, failureView{Stage: string(f.Stage), Item: f.Item, Error: f.Err.Error()})
	}
	return data
}

// statusFor maps a run error onto the response status.
func statusFor(err error) int {
	var (
		validation *schema.ValidationError
		authErr    *notion.AuthError
		transport  *notion.TransportError
		partial    *provisioning.PartialProvisioningError
	)
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.Is(err, handlestore.ErrLocked):
		return http.StatusConflict
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return StatusClientClosedRequest
	case errors.As(err, &authErr), errors.As(err, &transport), errors.As(err, &partial):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) getRun(c echo.Context) error {
	id := c.Param("id")
	view, ok := s.runs.get(id)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "unknown run "+id)
	}
	return c.JSON(http.StatusOK, runResponse{
		RunID:     id,
		Done:      view.Done,
		StartedAt: view.StartedAt,
		Steps:     view.Steps,
	})
}
