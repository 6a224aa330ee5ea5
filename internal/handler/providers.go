package handler

import (
	"context"
	"time"

	"github.com/carbonlog/internal/db"
	"github.com/carbonlog/internal/footprint"
	"github.com/carbonlog/internal/service"
)

type footprintProvider interface {
	Now() time.Time
	Submit(ctx context.Context, ownerID uint, entry footprint.Entry) (service.SubmitResult, error)
	Summary(ctx context.Context, ownerID uint, now time.Time) (service.Summary, error)
	WeeklyChart(ctx context.Context, ownerID uint, now time.Time) ([]footprint.DayTotal, error)
	CategoryBreakdown(ctx context.Context, ownerID uint, now time.Time) (footprint.Breakdown, error)
	Insights(ctx context.Context, ownerID uint, now time.Time) (service.Insights, error)
	Tips(ctx context.Context, ownerID uint) ([]string, error)
	Rewards(ctx context.Context, ownerID uint) (service.Rewards, error)
}

type authProvider interface {
	Signup(ctx context.Context, input service.SignupInput) (*db.User, string, error)
	Login(ctx context.Context, email, password string) (*db.User, string, error)
	Profile(ctx context.Context, id uint) (*db.User, error)
	ParseToken(raw string) (uint, error)
}
