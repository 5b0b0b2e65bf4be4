package simulation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"kavak-credito/internal/domain/policy"
	domain "kavak-credito/internal/domain/simulation"
	"kavak-credito/internal/infrastructure/metrics"
	"kavak-credito/pkg/amortization"
	"kavak-credito/pkg/id"
	"kavak-credito/pkg/money"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	// Rates are presented as fractions with basis-point precision.
	ratePlaces = 4
	// The stateless schedule endpoint has no currency; it uses cents.
	defaultCurrencyPlaces = 2
)

// Recorder receives one observation per simulation attempt.
type Recorder interface {
	ObserveSimulation(country, outcome string, options int)
}

type noopRecorder struct{}

func (noopRecorder) ObserveSimulation(string, string, int) {}

type Usecase struct {
	policies       policy.Repository
	store          domain.Store
	events         domain.EventPublisher
	defaultCountry string

	log     *zap.Logger
	metrics Recorder
	now     func() time.Time
}

type Option func(*Usecase)

func WithLogger(l *zap.Logger) Option { return func(u *Usecase) { u.log = l } }
func WithMetrics(r Recorder) Option   { return func(u *Usecase) { u.metrics = r } }
func WithClock(now func() time.Time) Option {
	return func(u *Usecase) { u.now = now }
}

func NewUsecase(policies policy.Repository, store domain.Store, events domain.EventPublisher, defaultCountry string, opts ...Option) *Usecase {
	u := &Usecase{
		policies:       policies,
		store:          store,
		events:         events,
		defaultCountry: strings.ToUpper(defaultCountry),
		log:            zap.NewNop(),
		metrics:        noopRecorder{},
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(u)
	}
	if u.log == nil {
		u.log = zap.NewNop()
	}
	if u.metrics == nil {
		u.metrics = noopRecorder{}
	}
	return u
}

// loadPolicy resolves the jurisdiction policy. A missing or unusable stored
// policy is a configuration problem, never the caller's.
func (u *Usecase) loadPolicy(ctx context.Context, country string) (domain.Policy, error) {
	row, err := u.policies.GetByCountry(ctx, country)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Policy{}, fmt.Errorf("%w: %s", domain.ErrPolicyNotFound, country)
	}
	if err != nil {
		return domain.Policy{}, err
	}
	p, err := row.ToPolicy()
	if err != nil {
		return domain.Policy{}, fmt.Errorf("%w: %s policy is unusable: %v", domain.ErrPolicyNotFound, country, err)
	}
	return p, nil
}

func (u *Usecase) Simulate(ctx context.Context, in SimulateInput) (*SimulationDTO, error) {
	country := strings.ToUpper(strings.TrimSpace(in.CountryCode))
	if country == "" {
		country = u.defaultCountry
	}

	p, err := u.loadPolicy(ctx, country)
	if err != nil {
		u.metrics.ObserveSimulation(country, metrics.OutcomeError, 0)
		return nil, err
	}

	results, err := domain.Simulate(in.VehiclePrice, in.Scenarios, p)
	if err != nil {
		u.metrics.ObserveSimulation(country, metrics.OutcomeRejected, 0)
		return nil, err
	}

	sim := &domain.Simulation{
		ID:           id.NewID32(),
		CountryCode:  country,
		VehiclePrice: in.VehiclePrice,
		DealID:       in.DealID,
		CreatedBy:    in.CreatedBy,
		Policy:       p,
		Results:      results,
		CreatedAt:    u.now().UTC(),
	}
	if err := u.store.Save(ctx, sim); err != nil {
		u.metrics.ObserveSimulation(country, metrics.OutcomeError, 0)
		return nil, fmt.Errorf("store simulation: %w", err)
	}

	// The activity log is best effort; the simulation already exists.
	if err := u.events.PublishSimulationCreated(ctx, sim); err != nil {
		u.log.Warn("publish simulation created failed",
			zap.String("op", "simulation.Simulate"),
			zap.String("simulation_id", sim.ID),
			zap.Error(err))
	}

	options := 0
	for _, r := range results {
		options += len(r.Options)
	}
	u.metrics.ObserveSimulation(country, metrics.OutcomeOK, options)
	u.log.Info("simulation created",
		zap.String("op", "simulation.Simulate"),
		zap.String("simulation_id", sim.ID),
		zap.String("country", country),
		zap.Int("scenarios", len(results)),
		zap.Int("options", options))

	return toSimulationDTO(sim), nil
}

func (u *Usecase) Get(ctx context.Context, simulationID string) (*SimulationDTO, error) {
	sim, err := u.store.Get(ctx, simulationID)
	if err != nil {
		return nil, err
	}
	return toSimulationDTO(sim), nil
}

// Schedule rebuilds the schedule of one stored (scenario, installment count)
// pair with the policy snapshot taken when the simulation ran.
func (u *Usecase) Schedule(ctx context.Context, in ScheduleInput) (*ScheduleDTO, error) {
	sim, err := u.store.Get(ctx, in.SimulationID)
	if err != nil {
		return nil, err
	}
	result, ok := sim.Result(in.ScenarioID)
	if !ok {
		return nil, fmt.Errorf("%w: %q in simulation %s", domain.ErrScenarioNotFound, in.ScenarioID, sim.ID)
	}

	entries, opt, err := domain.ScheduleFor(result, in.InstallmentCount, sim.Policy)
	if err != nil {
		return nil, err
	}

	dto := toScheduleDTO(result.FinancedAmount, opt, entries, sim.Policy.CurrencyDecimals)
	dto.SimulationID = sim.ID
	dto.ScenarioID = result.ScenarioID
	dto.Currency = sim.Policy.Currency
	return dto, nil
}

// StatelessSchedule exposes the calculator directly, without a policy.
func (u *Usecase) StatelessSchedule(_ context.Context, in AmortizationInput) (*ScheduleDTO, error) {
	entries, err := amortization.Schedule(in.Principal, in.AnnualNominalRate, in.InstallmentCount)
	if err != nil {
		return nil, err
	}
	payment, err := amortization.MonthlyPayment(in.Principal, in.AnnualNominalRate, in.InstallmentCount)
	if err != nil {
		return nil, err
	}
	opt := domain.InstallmentOption{
		InstallmentCount:    in.InstallmentCount,
		MonthlyPayment:      payment,
		NominalAnnualRate:   in.AnnualNominalRate,
		EffectiveAnnualRate: amortization.EffectiveAnnualRate(in.AnnualNominalRate),
	}
	return toScheduleDTO(in.Principal, opt, entries, defaultCurrencyPlaces), nil
}

func toSimulationDTO(sim *domain.Simulation) *SimulationDTO {
	places := sim.Policy.CurrencyDecimals
	dto := &SimulationDTO{
		SimulationID: sim.ID,
		CountryCode:  sim.CountryCode,
		Currency:     sim.Policy.Currency,
		VehiclePrice: sim.VehiclePrice,
		DealID:       sim.DealID,
		CreatedBy:    sim.CreatedBy,
		Results:      make([]ScenarioResultDTO, 0, len(sim.Results)),
		CreatedAt:    sim.CreatedAt,
	}
	for _, r := range sim.Results {
		rd := ScenarioResultDTO{
			ScenarioID:          r.ScenarioID,
			PercentageToFinance: r.PercentageToFinance,
			FinancedAmount:      money.Round(r.FinancedAmount, places),
			Options:             make([]InstallmentOptionDTO, 0, len(r.Options)),
		}
		for _, o := range r.Options {
			rd.Options = append(rd.Options, toOptionDTO(o, places))
		}
		dto.Results = append(dto.Results, rd)
	}
	return dto
}

func toOptionDTO(o domain.InstallmentOption, places int32) InstallmentOptionDTO {
	return InstallmentOptionDTO{
		InstallmentCount:    o.InstallmentCount,
		MonthlyPayment:      money.Round(o.MonthlyPayment, places),
		NominalAnnualRate:   money.Round(o.NominalAnnualRate, ratePlaces),
		EffectiveAnnualRate: money.Round(o.EffectiveAnnualRate, ratePlaces),
	}
}

func toScheduleDTO(principal float64, opt domain.InstallmentOption, entries []amortization.Entry, places int32) *ScheduleDTO {
	paid, interest := amortization.Totals(entries)
	o := toOptionDTO(opt, places)
	dto := &ScheduleDTO{
		Principal:           money.Round(principal, places),
		InstallmentCount:    o.InstallmentCount,
		MonthlyPayment:      o.MonthlyPayment,
		NominalAnnualRate:   o.NominalAnnualRate,
		EffectiveAnnualRate: o.EffectiveAnnualRate,
		TotalPaid:           money.Round(paid, places),
		TotalInterest:       money.Round(interest, places),
		Entries:             make([]EntryDTO, 0, len(entries)),
	}
	for _, e := range entries {
		dto.Entries = append(dto.Entries, EntryDTO{
			Period:             e.Period,
			PaymentAmount:      money.Round(e.Payment, places),
			PrincipalComponent: money.Round(e.Principal, places),
			InterestComponent:  money.Round(e.Interest, places),
			RemainingBalance:   money.Round(e.RemainingBalance, places),
		})
	}
	return dto
}
