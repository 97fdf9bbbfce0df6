package service

import (
	"context"
	"fmt"
	"time"

	"github.com/pbxdeck/pbxdeck/internal/api"
	"github.com/pbxdeck/pbxdeck/internal/domain"
	"github.com/pbxdeck/pbxdeck/internal/repository"
)

type callService struct {
	engine  api.PBXClient
	records repository.CallRecordRepo
}

func NewCallService(engine api.PBXClient, records repository.CallRecordRepo) CallService {
	return &callService{engine: engine, records: records}
}

func (s *callService) Active(ctx context.Context, tenantID int64) ([]domain.ActiveCall, error) {
	return s.engine.ActiveCalls(ctx, tenantID)
}

func (s *callService) Records(ctx context.Context, tenantID int64, filter repository.CDRFilter) ([]*domain.CallRecord, error) {
	return s.records.ListByTenant(ctx, tenantID, filter)
}

func (s *callService) Summary(ctx context.Context, tenantID int64, since time.Time) (*domain.CallSummary, error) {
	return s.records.SummaryByTenant(ctx, tenantID, since)
}

func (s *callService) Dial(ctx context.Context, tenantID int64, from, to string) (string, error) {
	if from == "" || to == "" {
		return "", fmt.Errorf("dial needs both a source extension and a destination")
	}
	return s.engine.Originate(ctx, api.OriginateRequest{TenantID: tenantID, From: from, To: to})
}
