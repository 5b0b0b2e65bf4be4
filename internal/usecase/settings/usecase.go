package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"kavak-credito/internal/domain/policy"
	domain "kavak-credito/internal/domain/simulation"
	"kavak-credito/internal/domain/uow"
	"kavak-credito/pkg/id"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

type Usecase struct {
	uow      uow.UnitOfWork
	policies policy.Repository
	audits   policy.AuditRepository
	log      *zap.Logger
	now      func() time.Time
}

func NewUsecase(u uow.UnitOfWork, policies policy.Repository, audits policy.AuditRepository, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{uow: u, policies: policies, audits: audits, log: log, now: time.Now}
}

func normalize(code string) string { return strings.ToUpper(strings.TrimSpace(code)) }

func notFound(err error, code string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", domain.ErrPolicyNotFound, code)
	}
	return err
}

func (u *Usecase) Get(ctx context.Context, countryCode string) (*PolicyDTO, error) {
	code := normalize(countryCode)
	p, err := u.policies.GetByCountry(ctx, code)
	if err != nil {
		return nil, notFound(err, code)
	}
	dto := toPolicyDTO(p)
	return &dto, nil
}

func (u *Usecase) List(ctx context.Context) ([]PolicyDTO, error) {
	rows, err := u.policies.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]PolicyDTO, 0, len(rows))
	for i := range rows {
		out = append(out, toPolicyDTO(&rows[i]))
	}
	return out, nil
}

// Update applies the new settings under a row lock and records the before
// and after snapshots in the same transaction.
func (u *Usecase) Update(ctx context.Context, in UpdateInput) (*PolicyDTO, error) {
	code := normalize(in.CountryCode)
	var out PolicyDTO

	err := u.uow.WithinPolicyTx(ctx, code, func(r uow.Repos, p *policy.JurisdictionPolicy) error {
		before, err := snapshot(p)
		if err != nil {
			return err
		}

		apply(p, in)
		if _, err := p.ToPolicy(); err != nil {
			return err
		}
		if err := r.Policies.Save(ctx, p); err != nil {
			return fmt.Errorf("save policy: %w", err)
		}

		after, err := snapshot(p)
		if err != nil {
			return err
		}
		if err := r.Audits.Create(ctx, &policy.SettingsChange{
			ChangeID:    id.NewID32(),
			CountryCode: code,
			ChangedBy:   in.UpdatedBy,
			Before:      before,
			After:       after,
			CreatedAt:   u.now().UTC(),
		}); err != nil {
			return fmt.Errorf("record settings change: %w", err)
		}

		out = toPolicyDTO(p)
		return nil
	})
	if err != nil {
		return nil, notFound(err, code)
	}

	u.log.Info("settings updated",
		zap.String("op", "settings.Update"),
		zap.String("country", code),
		zap.String("updated_by", in.UpdatedBy))
	return &out, nil
}

func apply(p *policy.JurisdictionPolicy, in UpdateInput) {
	p.MinPercentage = in.MinPercentage
	p.MaxPercentage = in.MaxPercentage
	p.MaxScenarios = in.MaxScenarios
	p.MinInstallments = in.MinInstallments
	p.MaxInstallments = in.MaxInstallments
	p.InstallmentStep = in.InstallmentStep
	p.UpdatedBy = in.UpdatedBy

	p.RateTiers = make([]policy.RateTier, 0, len(in.RateTiers))
	for _, t := range in.RateTiers {
		p.RateTiers = append(p.RateTiers, policy.RateTier{
			PolicyID:          p.ID,
			UpToInstallments:  t.UpToInstallments,
			NominalAnnualRate: t.NominalAnnualRate,
		})
	}
	p.LeverageSpreads = make([]policy.LeverageSpread, 0, len(in.LeverageSpreads))
	for _, s := range in.LeverageSpreads {
		p.LeverageSpreads = append(p.LeverageSpreads, policy.LeverageSpread{
			PolicyID:        p.ID,
			AbovePercentage: s.AbovePercentage,
			Spread:          s.Spread,
		})
	}
}

// History lists the recorded changes of a country, newest first.
func (u *Usecase) History(ctx context.Context, countryCode string, limit int) ([]ChangeDTO, error) {
	code := normalize(countryCode)
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	if _, err := u.policies.GetByCountry(ctx, code); err != nil {
		return nil, notFound(err, code)
	}
	rows, err := u.audits.ListByCountry(ctx, code, limit)
	if err != nil {
		return nil, err
	}

	out := make([]ChangeDTO, 0, len(rows))
	for _, c := range rows {
		out = append(out, ChangeDTO{
			ChangeID:    c.ChangeID,
			CountryCode: c.CountryCode,
			ChangedBy:   c.ChangedBy,
			Before:      rawOrNil(c.Before),
			After:       rawOrNil(c.After),
			CreatedAt:   c.CreatedAt,
		})
	}
	return out, nil
}

// Seed stores the given policies in one transaction. Countries that already
// have a policy are left alone unless overwrite is set.
func (u *Usecase) Seed(ctx context.Context, seeds []*policy.JurisdictionPolicy, overwrite bool) (SeedResult, error) {
	for _, s := range seeds {
		if _, err := s.ToPolicy(); err != nil {
			return SeedResult{}, fmt.Errorf("seed %s: %w", s.CountryCode, err)
		}
	}

	var res SeedResult
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		res = SeedResult{}
		for _, s := range seeds {
			existing, err := r.Policies.GetByCountryForUpdate(ctx, s.CountryCode)
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				if err := u.seedOne(ctx, r, nil, s); err != nil {
					return err
				}
				res.Created++
			case err != nil:
				return err
			case overwrite:
				if err := u.seedOne(ctx, r, existing, s); err != nil {
					return err
				}
				res.Updated++
			default:
				res.Skipped++
			}
		}
		return nil
	})
	if err != nil {
		return SeedResult{}, err
	}

	u.log.Info("policies seeded",
		zap.String("op", "settings.Seed"),
		zap.Int("created", res.Created),
		zap.Int("updated", res.Updated),
		zap.Int("skipped", res.Skipped))
	return res, nil
}

func (u *Usecase) seedOne(ctx context.Context, r uow.Repos, existing, seed *policy.JurisdictionPolicy) error {
	var before string
	target := seed
	if existing != nil {
		var err error
		if before, err = snapshot(existing); err != nil {
			return err
		}
		target = existing
		target.Currency = seed.Currency
		target.CurrencyDecimals = seed.CurrencyDecimals
		in := UpdateInput{
			MinPercentage:   seed.MinPercentage,
			MaxPercentage:   seed.MaxPercentage,
			MaxScenarios:    seed.MaxScenarios,
			MinInstallments: seed.MinInstallments,
			MaxInstallments: seed.MaxInstallments,
			InstallmentStep: seed.InstallmentStep,
			UpdatedBy:       seed.UpdatedBy,
		}
		for _, t := range seed.RateTiers {
			in.RateTiers = append(in.RateTiers, domain.RateTier{UpToInstallments: t.UpToInstallments, NominalAnnualRate: t.NominalAnnualRate})
		}
		for _, s := range seed.LeverageSpreads {
			in.LeverageSpreads = append(in.LeverageSpreads, domain.LeverageSpread{AbovePercentage: s.AbovePercentage, Spread: s.Spread})
		}
		apply(target, in)
		if err := r.Policies.Save(ctx, target); err != nil {
			return fmt.Errorf("save policy %s: %w", target.CountryCode, err)
		}
	} else if err := r.Policies.Create(ctx, target); err != nil {
		return fmt.Errorf("create policy %s: %w", target.CountryCode, err)
	}

	after, err := snapshot(target)
	if err != nil {
		return err
	}
	return r.Audits.Create(ctx, &policy.SettingsChange{
		ChangeID:    id.NewID32(),
		CountryCode: target.CountryCode,
		ChangedBy:   target.UpdatedBy,
		Before:      before,
		After:       after,
		CreatedAt:   u.now().UTC(),
	})
}

func snapshot(p *policy.JurisdictionPolicy) (string, error) {
	dto := toPolicyDTO(p)
	dto.UpdatedAt = time.Time{}
	b, err := json.Marshal(dto)
	if err != nil {
		return "", fmt.Errorf("snapshot policy %s: %w", p.CountryCode, err)
	}
	return string(b), nil
}

func rawOrNil(s string) json.RawMessage {
	if s == "" {
		return nil
	}
	return json.RawMessage(s)
}

func toPolicyDTO(p *policy.JurisdictionPolicy) PolicyDTO {
	dto := PolicyDTO{
		CountryCode:      p.CountryCode,
		Currency:         p.Currency,
		CurrencyDecimals: p.CurrencyDecimals,
		MinPercentage:    p.MinPercentage,
		MaxPercentage:    p.MaxPercentage,
		MaxScenarios:     p.MaxScenarios,
		MinInstallments:  p.MinInstallments,
		MaxInstallments:  p.MaxInstallments,
		InstallmentStep:  p.InstallmentStep,
		RateTiers:        make([]domain.RateTier, 0, len(p.RateTiers)),
		LeverageSpreads:  make([]domain.LeverageSpread, 0, len(p.LeverageSpreads)),
		UpdatedBy:        p.UpdatedBy,
		UpdatedAt:        p.UpdatedAt,
	}
	// An unusable stored triple still renders; the menu is just left empty.
	if menu, err := domain.BuildMenu(p.MinInstallments, p.MaxInstallments, p.InstallmentStep); err == nil {
		dto.InstallmentMenu = menu
	}
	for _, t := range p.RateTiers {
		dto.RateTiers = append(dto.RateTiers, domain.RateTier{UpToInstallments: t.UpToInstallments, NominalAnnualRate: t.NominalAnnualRate})
	}
	for _, s := range p.LeverageSpreads {
		dto.LeverageSpreads = append(dto.LeverageSpreads, domain.LeverageSpread{AbovePercentage: s.AbovePercentage, Spread: s.Spread})
	}
	return dto
}
