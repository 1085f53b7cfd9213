package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/betaops/beta-manager/internal/domain"
	"github.com/betaops/beta-manager/internal/repository"
	"github.com/betaops/beta-manager/pkg/util"
)

// CommunicationService exposes the append-only outreach log.
type CommunicationService struct {
	comms   repository.CommunicationRepository
	testers repository.TesterRepository
	logger  *zap.Logger
}

// CommunicationDependencies bundles requirements for the service.
type CommunicationDependencies struct {
	CommunicationRepo repository.CommunicationRepository
	TesterRepo        repository.TesterRepository
	Logger            *zap.Logger
}

// NewCommunicationService constructs the service.
func NewCommunicationService(deps CommunicationDependencies) *CommunicationService {
	return &CommunicationService{
		comms:   deps.CommunicationRepo,
		testers: deps.TesterRepo,
		logger:  deps.Logger,
	}
}

// List returns a filtered page of communications.
func (s *CommunicationService) List(ctx context.Context, filter repository.CommunicationFilter) ([]domain.Communication, int, error) {
	return s.comms.List(ctx, filter)
}

// Get returns one communication record.
func (s *CommunicationService) Get(ctx context.Context, id int) (*domain.Communication, error) {
	return s.comms.GetByID(ctx, id)
}

// Create logs a manually recorded contact (a WhatsApp exchange, a phone
// call). Emails sent through the system are logged by the template
// service instead.
func (s *CommunicationService) Create(ctx context.Context, comm *domain.Communication) error {
	if _, err := s.testers.GetByID(ctx, comm.TesterID); err != nil {
		if util.IsNotFound(err) {
			return util.NewValidationError("unknown tester", map[string]any{"tester_id": comm.TesterID})
		}
		return err
	}
	return s.comms.Create(ctx, comm)
}
