package submissions

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"boilerfunnel/internal/app/commands"
	"boilerfunnel/internal/app/dto"
	handlersupport "boilerfunnel/internal/app/handlers/support"
	"boilerfunnel/internal/app/outbox"
	"boilerfunnel/internal/app/queries"
	"boilerfunnel/internal/app/uow"
	domainsubmissions "boilerfunnel/internal/domain/submissions"
)

const (
	SubmitFormKey       = "submissions.submit"
	UpdateSubmissionKey = "submissions.update"
	DeleteSubmissionKey = "submissions.delete"
	ListSubmissionsKey  = "submissions.list"
	GetSubmissionKey    = "submissions.get"
)

var ErrSubmissionIDRequired = errors.New("submissions: submission id is required")

type SubmitFormCommand struct {
	Qualification domainsubmissions.Qualification
	Contact       domainsubmissions.Contact
}

func (SubmitFormCommand) Key() string { return SubmitFormKey }

func (c SubmitFormCommand) Validate() error {
	return c.Contact.Validate()
}

type SubmitFormResult struct {
	ID string `json:"id"`
}

type SubmitFormHandler struct {
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
	Logger  *slog.Logger
	Now     func() time.Time
}

func (h *SubmitFormHandler) Handle(ctx context.Context, cmd SubmitFormCommand) (*SubmitFormResult, error) {
	unit, err := handlersupport.UnitFrom(ctx)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if h.Now != nil {
		now = h.Now()
	}
	submission, err := domainsubmissions.NewSubmission(domainsubmissions.CreateParams{
		ID:            domainsubmissions.SubmissionID(uuid.NewString()),
		Qualification: cmd.Qualification,
		Contact:       cmd.Contact,
		Now:           now,
	})
	if err != nil {
		return nil, err
	}
	if err := unit.Submissions().Save(ctx, submission); err != nil {
		return nil, err
	}
	if err := outbox.Publish(ctx, h.Outbox, h.Encoder, submission); err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("form submission saved", "submission_id", submission.ID, "postcode", submission.Qualification.Postcode)
	}
	return &SubmitFormResult{ID: string(submission.ID)}, nil
}

type UpdateSubmissionCommand struct {
	ID    string
	Patch domainsubmissions.Patch
}

func (UpdateSubmissionCommand) Key() string { return UpdateSubmissionKey }

func (c UpdateSubmissionCommand) Validate() error { return requireID(c.ID) }

type UpdateSubmissionHandler struct {
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
	Logger  *slog.Logger
}

func (h *UpdateSubmissionHandler) Handle(ctx context.Context, cmd UpdateSubmissionCommand) (*dto.Submission, error) {
	unit, err := handlersupport.UnitFrom(ctx)
	if err != nil {
		return nil, err
	}
	submission, err := unit.Submissions().ByID(ctx, domainsubmissions.SubmissionID(cmd.ID))
	if err != nil {
		return nil, err
	}
	if err := submission.Apply(cmd.Patch, time.Now()); err != nil {
		return nil, err
	}
	return saveAndMap(ctx, unit, h.Outbox, h.Encoder, submission)
}

type DeleteSubmissionCommand struct {
	ID string
}

func (DeleteSubmissionCommand) Key() string { return DeleteSubmissionKey }

func (c DeleteSubmissionCommand) Validate() error { return requireID(c.ID) }

type DeleteSubmissionHandler struct {
	Logger *slog.Logger
}

func (h *DeleteSubmissionHandler) Handle(ctx context.Context, cmd DeleteSubmissionCommand) (struct{}, error) {
	unit, err := handlersupport.UnitFrom(ctx)
	if err != nil {
		return struct{}{}, err
	}
	if err := unit.Submissions().Delete(ctx, domainsubmissions.SubmissionID(cmd.ID)); err != nil {
		return struct{}{}, err
	}
	if h.Logger != nil {
		h.Logger.Info("form submission deleted", "submission_id", cmd.ID)
	}
	return struct{}{}, nil
}

type ListSubmissionsQuery struct{}

func (ListSubmissionsQuery) Key() string { return ListSubmissionsKey }

type ListSubmissionsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListSubmissionsHandler) Handle(ctx context.Context, _ ListSubmissionsQuery) ([]dto.Submission, error) {
	items, err := loadAll(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	return dto.MapSubmissions(items), nil
}

type GetSubmissionQuery struct {
	ID string
}

func (GetSubmissionQuery) Key() string { return GetSubmissionKey }

func (q GetSubmissionQuery) Validate() error { return requireID(q.ID) }

type GetSubmissionHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *GetSubmissionHandler) Handle(ctx context.Context, q GetSubmissionQuery) (dto.Submission, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.Submission{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	submission, err := unit.Submissions().ByID(execCtx, domainsubmissions.SubmissionID(q.ID))
	if err != nil {
		return dto.Submission{}, err
	}
	return dto.MapSubmission(submission), nil
}

func loadAll(ctx context.Context, factory uow.UoWFactory) ([]*domainsubmissions.Submission, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, factory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	items, err := unit.Submissions().List(execCtx)
	if err != nil {
		return nil, err
	}
	domainsubmissions.SortNewestFirst(items)
	return items, nil
}

func saveAndMap(ctx context.Context, unit uow.UnitOfWork, box outbox.Outbox, enc outbox.EventEncoder, s *domainsubmissions.Submission) (*dto.Submission, error) {
	if err := unit.Submissions().Save(ctx, s); err != nil {
		return nil, err
	}
	if err := outbox.Publish(ctx, box, enc, s); err != nil {
		return nil, err
	}
	out := dto.MapSubmission(s)
	return &out, nil
}

func requireID(id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrSubmissionIDRequired
	}
	return nil
}

var (
	_ commands.Handler[SubmitFormCommand, *SubmitFormResult]     = (*SubmitFormHandler)(nil)
	_ commands.Handler[UpdateSubmissionCommand, *dto.Submission] = (*UpdateSubmissionHandler)(nil)
	_ commands.Handler[DeleteSubmissionCommand, struct{}]        = (*DeleteSubmissionHandler)(nil)
	_ queries.Handler[ListSubmissionsQuery, []dto.Submission]    = (*ListSubmissionsHandler)(nil)
	_ queries.Handler[GetSubmissionQuery, dto.Submission]        = (*GetSubmissionHandler)(nil)
)
