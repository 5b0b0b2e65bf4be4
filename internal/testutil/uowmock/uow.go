package uowmock

import (
	"context"
	"errors"

	"kavak-credito/internal/domain/policy"
	"kavak-credito/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return errUnimplemented.
type UoW struct {
	WithinTxFn       func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinPolicyTxFn func(ctx context.Context, countryCode string, fn func(r uow.Repos, p *policy.JurisdictionPolicy) error) error
}

// Convenience fluent setters
func New() *UoW { return &UoW{} }
func (m *UoW) WithWithinTx(fn func(context.Context, func(uow.Repos) error) error) *UoW {
	m.WithinTxFn = fn
	return m
}
func (m *UoW) WithWithinPolicyTx(fn func(context.Context, string, func(uow.Repos, *policy.JurisdictionPolicy) error) error) *UoW {
	m.WithinPolicyTxFn = fn
	return m
}
func (m *UoW) Reset() { *m = UoW{} }

// Passthrough returns a UoW that runs every callback directly against repos,
// handing WithinPolicyTx the policy repos.Policies returns for the country.
func Passthrough(repos uow.Repos) *UoW {
	return &UoW{
		WithinTxFn: func(_ context.Context, fn func(uow.Repos) error) error { return fn(repos) },
		WithinPolicyTxFn: func(ctx context.Context, code string, fn func(uow.Repos, *policy.JurisdictionPolicy) error) error {
			p, err := repos.Policies.GetByCountryForUpdate(ctx, code)
			if err != nil {
				return err
			}
			return fn(repos, p)
		},
	}
}

// Methods implementing UnitOfWork
func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}
func (m *UoW) WithinPolicyTx(ctx context.Context, countryCode string, fn func(r uow.Repos, p *policy.JurisdictionPolicy) error) error {
	if m.WithinPolicyTxFn != nil {
		return m.WithinPolicyTxFn(ctx, countryCode, fn)
	}
	return errUnimplemented
}
