package blocks

import (
	"context"
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-reusable-blocks/blocks"
	"github.com/goliatone/go-reusable-blocks/internal/logging"
	schemavalidation "github.com/goliatone/go-reusable-blocks/internal/validation"
	"github.com/goliatone/go-reusable-blocks/pkg/interfaces"
	"github.com/google/uuid"
)

// IDGenerator produces identifiers for newly created blocks.
type IDGenerator func() uuid.UUID

// ServiceOption customises service construction.
type ServiceOption func(*service)

// WithClock overrides the time source used for timestamps.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithIDGenerator overrides the identifier generator.
func WithIDGenerator(generator IDGenerator) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

// WithLogger attaches a logger used for structured diagnostics.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithContentSchema overrides the JSON schema enforced for stored content.
func WithContentSchema(schema map[string]any) ServiceOption {
	return func(s *service) {
		if schema != nil {
			s.contentSchema = schema
		}
	}
}

type service struct {
	repo          Repository
	now           func() time.Time
	id            IDGenerator
	logger        interfaces.Logger
	contentSchema map[string]any
}

// NewService constructs the reusable block service on top of the supplied
// repository.
func NewService(repo Repository, opts ...ServiceOption) blocks.Service {
	s := &service{
		repo:          repo,
		now:           time.Now,
		id:            uuid.New,
		logger:        logging.NoOp(),
		contentSchema: blocks.SegmentsJSONSchema,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *service) Create(ctx context.Context, req blocks.CreateBlockRequest) (*blocks.ReusableBlock, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, blocks.ErrNameRequired
	}

	slugValue, err := s.resolveSlug(ctx, req.Slug, name, uuid.Nil)
	if err != nil {
		return nil, err
	}

	if err := s.validateContent(req.Content); err != nil {
		return nil, err
	}

	block := &blocks.ReusableBlock{
		ID:        s.id(),
		Name:      name,
		Slug:      slugValue,
		Content:   req.Content,
		CreatedAt: s.now(),
		UpdatedAt: s.now(),
	}
	if block.Content == nil {
		block.Content = blocks.Segments{}
	}

	if err := detectCircularReferences(ctx, s.repo, block, nil); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, block)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("reusable block created", "block_id", created.ID, "slug", created.Slug)
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*blocks.ReusableBlock, error) {
	if id == uuid.Nil {
		return nil, blocks.ErrBlockIDRequired
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*blocks.ReusableBlock, error) {
	return s.repo.GetBySlug(ctx, strings.TrimSpace(slug))
}

func (s *service) List(ctx context.Context) ([]*blocks.ReusableBlock, error) {
	return s.repo.List(ctx)
}

func (s *service) Update(ctx context.Context, req blocks.UpdateBlockRequest) (*blocks.ReusableBlock, error) {
	if req.ID == uuid.Nil {
		return nil, blocks.ErrBlockIDRequired
	}

	block, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, blocks.ErrNameRequired
		}
		block.Name = name
	}

	if req.Slug != nil {
		slugValue, err := s.resolveSlug(ctx, *req.Slug, block.Name, block.ID)
		if err != nil {
			return nil, err
		}
		block.Slug = slugValue
	}

	if req.Content != nil {
		if err := s.validateContent(*req.Content); err != nil {
			return nil, err
		}
		block.Content = *req.Content
	}

	// The cycle check runs against the candidate content so a write that
	// would close a cycle is rejected before anything is persisted.
	if err := detectCircularReferences(ctx, s.repo, block, nil); err != nil {
		return nil, err
	}

	block.UpdatedAt = s.now()
	return s.repo.Update(ctx, block)
}

func (s *service) Delete(ctx context.Context, req blocks.DeleteBlockRequest) error {
	if req.ID == uuid.Nil {
		return blocks.ErrBlockIDRequired
	}
	if err := s.repo.Delete(ctx, req.ID, req.HardDelete); err != nil {
		return err
	}
	s.logger.Debug("reusable block deleted", "block_id", req.ID, "hard", req.HardDelete)
	return nil
}

func (s *service) Publish(ctx context.Context, id uuid.UUID) (*blocks.ReusableBlock, error) {
	return s.setLive(ctx, id, true)
}

func (s *service) Unpublish(ctx context.Context, id uuid.UUID) (*blocks.ReusableBlock, error) {
	return s.setLive(ctx, id, false)
}

func (s *service) setLive(ctx context.Context, id uuid.UUID, live bool) (*blocks.ReusableBlock, error) {
	if id == uuid.Nil {
		return nil, blocks.ErrBlockIDRequired
	}

	block, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if block.Live == live {
		return block, nil
	}

	block.Live = live
	block.UpdatedAt = s.now()
	return s.repo.Update(ctx, block)
}

// resolveSlug normalizes the requested slug, deriving one from the name when
// empty, and enforces uniqueness among non-deleted blocks excluding self.
func (s *service) resolveSlug(ctx context.Context, requested, name string, selfID uuid.UUID) (string, error) {
	source := strings.TrimSpace(requested)
	if source == "" {
		source = name
	}

	normalized, err := blocks.NormalizeSlug(source)
	if err != nil || !blocks.IsValidSlug(normalized) {
		return "", blocks.ErrSlugInvalid
	}

	existing, err := s.repo.GetBySlug(ctx, normalized)
	if err != nil {
		var notFound *NotFoundError
		if errors.As(err, &notFound) {
			return normalized, nil
		}
		return "", err
	}
	if existing.ID != selfID {
		return "", &blocks.SlugExistsError{Slug: normalized, ExistingID: existing.ID}
	}
	return normalized, nil
}

func (s *service) validateContent(segments blocks.Segments) error {
	if segments == nil {
		return nil
	}
	if err := validateSlotFills(segments); err != nil {
		return err
	}
	if err := schemavalidation.ValidateDocument(s.contentSchema, segments); err != nil {
		return err
	}
	return nil
}

// validateSlotFills enforces the slot identifier bounds on every layout
// segment, recursing through nested fill content.
func validateSlotFills(segments blocks.Segments) error {
	for _, segment := range segments {
		layout, ok := segment.Value.(blocks.LayoutValue)
		if !ok {
			continue
		}
		for _, fill := range layout.SlotFills {
			if err := validation.Validate(fill.SlotID,
				validation.Required.Error("slot id is required"),
				validation.Length(1, blocks.MaxSlotIDLength),
			); err != nil {
				if strings.TrimSpace(fill.SlotID) == "" {
					return blocks.ErrSlotIDRequired
				}
				return blocks.ErrSlotIDTooLong
			}
			if err := validateSlotFills(fill.Content); err != nil {
				return err
			}
		}
	}
	return nil
}
