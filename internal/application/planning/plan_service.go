package planning

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mrp/backend/internal/domain/catalog"
	"github.com/mrp/backend/internal/domain/orders"
	"github.com/mrp/backend/internal/domain/planning"
	"github.com/mrp/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PlanService handles requirement plan operations, including the calculation
// run that turns linked orders into requirement lines.
type PlanService struct {
	planRepo       planning.PlanRepository
	orderRepo      orders.ProductionOrderRepository
	txScope        TransactionScope
	locker         PlanLocker
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewPlanService creates a new PlanService
func NewPlanService(
	planRepo planning.PlanRepository,
	orderRepo orders.ProductionOrderRepository,
	txScope TransactionScope,
	locker PlanLocker,
	logger *zap.Logger,
) *PlanService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlanService{
		planRepo:  planRepo,
		orderRepo: orderRepo,
		txScope:   txScope,
		locker:    locker,
		logger:    logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *PlanService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new requirement plan and links the given source orders
func (s *PlanService) Create(ctx context.Context, req CreatePlanRequest) (*PlanResponse, error) {
	exists, err := s.planRepo.ExistsByReferenceNumber(ctx, req.ReferenceNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Plan with this reference number already exists")
	}

	considerStock := true
	if req.ConsiderStock != nil {
		considerStock = *req.ConsiderStock
	}
	considerMinStock := true
	if req.ConsiderMinStock != nil {
		considerMinStock = *req.ConsiderMinStock
	}

	plan, err := planning.NewRequirementPlan(req.ReferenceNumber, considerStock, considerMinStock)
	if err != nil {
		return nil, err
	}

	start := plan.PlanningWindowStart
	if req.PlanningWindowStart != nil {
		start = *req.PlanningWindowStart
	}
	if err := plan.SetPlanningWindow(start, req.PlanningWindowEnd); err != nil {
		return nil, err
	}

	plan.Notes = req.Notes

	for _, orderID := range req.OrderIDs {
		if _, err := s.orderRepo.FindByID(ctx, orderID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_ORDER", "Source order not found")
			}
			return nil, err
		}
		if err := plan.LinkOrder(orderID); err != nil {
			return nil, err
		}
	}

	if err := s.planRepo.Save(ctx, plan); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, plan)

	response := ToPlanResponse(plan)
	return &response, nil
}

// GetByID retrieves a plan with its lines
func (s *PlanService) GetByID(ctx context.Context, planID uuid.UUID) (*PlanResponse, error) {
	plan, err := s.planRepo.FindByID(ctx, planID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, planning.ErrPlanNotFound
		}
		return nil, err
	}

	response := ToPlanResponse(plan)
	return &response, nil
}

// List retrieves plans with filtering and pagination
func (s *PlanService) List(ctx context.Context, filter PlanListFilter) ([]PlanListResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	plans, err := s.planRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.planRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToPlanListResponses(plans), total, nil
}

// Update updates a plan's calculation inputs
func (s *PlanService) Update(ctx context.Context, planID uuid.UUID, req UpdatePlanRequest) (*PlanResponse, error) {
	plan, err := s.findPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan.IsTerminal() {
		return nil, planning.ErrPlanClosed
	}

	if req.ConsiderStock != nil {
		plan.ConsiderStock = *req.ConsiderStock
	}
	if req.ConsiderMinStock != nil {
		plan.ConsiderMinStock = *req.ConsiderMinStock
	}

	if req.PlanningWindowStart != nil || req.PlanningWindowEnd != nil {
		start := plan.PlanningWindowStart
		if req.PlanningWindowStart != nil {
			start = *req.PlanningWindowStart
		}
		end := plan.PlanningWindowEnd
		if req.PlanningWindowEnd != nil {
			end = req.PlanningWindowEnd
		}
		if err := plan.SetPlanningWindow(start, end); err != nil {
			return nil, err
		}
	}

	if req.Notes != nil {
		plan.Notes = *req.Notes
	}

	if err := s.planRepo.Save(ctx, plan); err != nil {
		return nil, err
	}

	response := ToPlanResponse(plan)
	return &response, nil
}

// LinkOrders links additional source orders to a plan
func (s *PlanService) LinkOrders(ctx context.Context, planID uuid.UUID, req LinkOrdersRequest) (*PlanResponse, error) {
	plan, err := s.findPlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	for _, orderID := range req.OrderIDs {
		if _, err := s.orderRepo.FindByID(ctx, orderID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_ORDER", "Source order not found")
			}
			return nil, err
		}
		if err := plan.LinkOrder(orderID); err != nil {
			return nil, err
		}
	}

	if err := s.planRepo.Save(ctx, plan); err != nil {
		return nil, err
	}

	response := ToPlanResponse(plan)
	return &response, nil
}

// UnlinkOrder removes a source order from a plan
func (s *PlanService) UnlinkOrder(ctx context.Context, planID, orderID uuid.UUID) (*PlanResponse, error) {
	plan, err := s.findPlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	if err := plan.UnlinkOrder(orderID); err != nil {
		return nil, err
	}

	if err := s.planRepo.Save(ctx, plan); err != nil {
		return nil, err
	}

	response := ToPlanResponse(plan)
	return &response, nil
}

// Calculate runs the requirements calculation for a plan. Runs for the same
// plan are mutually exclusive; a run holds the plan's lock and executes the
// whole read-explode-net-persist sequence inside one transaction, so a
// recalculation atomically replaces the previous line set.
func (s *PlanService) Calculate(ctx context.Context, planID uuid.UUID) (*PlanResponse, error) {
	release, err := s.locker.Acquire(ctx, planID)
	if err != nil {
		return nil, err
	}
	defer release()

	started := time.Now()
	var calculated *planning.RequirementPlan

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		plan, err := repos.Plans().FindByID(ctx, planID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return planning.ErrPlanNotFound
			}
			return err
		}
		if plan.IsTerminal() {
			return planning.ErrPlanClosed
		}

		eligible, err := repos.Orders().FindByIDsWithStatuses(ctx, plan.LinkedOrderIDs(), orders.PlanningEligibleStatuses)
		if err != nil {
			return err
		}
		if len(eligible) == 0 {
			return planning.ErrNoEligibleOrders
		}

		roots := collectRoots(eligible)

		reader := &transactionalCatalog{repos: repos}
		exploder := planning.NewExploder(reader, s.logger)
		collector := planning.NewDemandCollector(reader, exploder, s.logger)

		acc := planning.NewDemandAccumulator()
		if err := collector.Collect(ctx, roots, plan.PlanningWindowEnd, acc); err != nil {
			return err
		}

		netting := planning.NewNettingCalculator(reader, s.logger)
		lines, err := netting.BuildLines(ctx, plan.ID, acc, plan.ConsiderStock, plan.ConsiderMinStock)
		if err != nil {
			return err
		}

		if err := plan.MarkCalculated(lines, time.Now()); err != nil {
			return err
		}

		if err := repos.Plans().SaveCalculated(ctx, plan); err != nil {
			return err
		}

		calculated = plan
		return nil
	})
	if err != nil {
		var cyclic *planning.CyclicBOMError
		if errors.As(err, &cyclic) {
			s.logger.Error("calculation aborted on cyclic BOM",
				zap.String("plan_id", planID.String()),
				zap.String("chain", cyclic.Error()),
			)
			return nil, cyclic.DomainError()
		}
		var depth *planning.ExplosionDepthError
		if errors.As(err, &depth) {
			return nil, depth.DomainError()
		}
		return nil, err
	}

	s.logger.Info("plan calculated",
		zap.String("plan_id", planID.String()),
		zap.String("reference_number", calculated.ReferenceNumber),
		zap.Int("lines", calculated.LineCount()),
		zap.Duration("duration", time.Since(started)),
	)

	s.publishDomainEvents(ctx, calculated)

	response := ToPlanResponse(calculated)
	return &response, nil
}

// StartProcessing transitions a calculated plan to PROCESSING
func (s *PlanService) StartProcessing(ctx context.Context, planID uuid.UUID) (*PlanResponse, error) {
	return s.transition(ctx, planID, (*planning.RequirementPlan).StartProcessing)
}

// Complete transitions a processing plan to COMPLETED
func (s *PlanService) Complete(ctx context.Context, planID uuid.UUID) (*PlanResponse, error) {
	return s.transition(ctx, planID, (*planning.RequirementPlan).Complete)
}

// Cancel cancels a plan
func (s *PlanService) Cancel(ctx context.Context, planID uuid.UUID) (*PlanResponse, error) {
	return s.transition(ctx, planID, (*planning.RequirementPlan).Cancel)
}

// Delete deletes a plan and its lines
func (s *PlanService) Delete(ctx context.Context, planID uuid.UUID) error {
	if _, err := s.findPlan(ctx, planID); err != nil {
		return err
	}
	return s.planRepo.Delete(ctx, planID)
}

func (s *PlanService) transition(ctx context.Context, planID uuid.UUID, fn func(*planning.RequirementPlan) error) (*PlanResponse, error) {
	plan, err := s.findPlan(ctx, planID)
	if err != nil {
		return nil, err
	}

	if err := fn(plan); err != nil {
		return nil, err
	}

	if err := s.planRepo.Save(ctx, plan); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, plan)

	response := ToPlanResponse(plan)
	return &response, nil
}

func (s *PlanService) findPlan(ctx context.Context, planID uuid.UUID) (*planning.RequirementPlan, error) {
	plan, err := s.planRepo.FindByID(ctx, planID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, planning.ErrPlanNotFound
		}
		return nil, err
	}
	return plan, nil
}

func (s *PlanService) publishDomainEvents(ctx context.Context, plan *planning.RequirementPlan) {
	if s.eventPublisher == nil {
		return
	}
	events := plan.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	plan.ClearDomainEvents()
}

// collectRoots flattens eligible order lines into root demand, carrying each
// order's required date
func collectRoots(eligible []orders.ProductionOrder) []planning.RootDemand {
	roots := make([]planning.RootDemand, 0, len(eligible))
	for i := range eligible {
		order := &eligible[i]
		for _, line := range order.Lines {
			roots = append(roots, planning.RootDemand{
				ProductID:    line.ProductID,
				Quantity:     line.Quantity,
				RequiredDate: order.RequiredDate,
			})
		}
	}
	return roots
}

// transactionalCatalog adapts the transaction's repositories to the catalog
// reader the calculation engine consumes
type transactionalCatalog struct {
	repos TransactionalRepositories
}

func (c *transactionalCatalog) GetProduct(ctx context.Context, productID uuid.UUID) (*catalog.Product, error) {
	return c.repos.Products().FindByID(ctx, productID)
}

func (c *transactionalCatalog) GetActiveBOM(ctx context.Context, productID uuid.UUID) (*catalog.BillOfMaterials, error) {
	return c.repos.BOMs().FindActiveByProduct(ctx, productID)
}
