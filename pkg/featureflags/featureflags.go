package featureflags

import (
	"context"

	"cashback-ledger/pkg/config"

	"github.com/Flagsmith/flagsmith-go-client/v2"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("featureflags", fx.Provide(ProvideFeatureFlag))

// Known feature names.
const (
	PayoutsEnabled = "payouts_enabled"
)

type FeatureFlag interface {
	// IsEnabled evaluates feature for identifier. fallback is returned when
	// flags are not configured or the flag service cannot be reached.
	IsEnabled(ctx context.Context, feature, identifier string, fallback bool) bool
	Flags(ctx context.Context, identifier string, traits ...*flagsmith.Trait) (flagsmith.Flags, error)
}

type featureflag struct {
	client *flagsmith.Client
}

type FeatureParams struct {
	fx.In
	Config *config.Config
}

func ProvideFeatureFlag(p FeatureParams) FeatureFlag {
	if p.Config.Flagsmith.ApiKey == "" {
		return &featureflag{}
	}

	opts := []flagsmith.Option{flagsmith.WithAnalytics()}
	if p.Config.Flagsmith.Addr != "" {
		opts = append(opts, flagsmith.WithBaseURL(p.Config.Flagsmith.Addr))
	}

	return &featureflag{
		client: flagsmith.NewClient(p.Config.Flagsmith.ApiKey, opts...),
	}
}

func (s *featureflag) IsEnabled(ctx context.Context, feature, identifier string, fallback bool) bool {
	if s.client == nil {
		return fallback
	}

	flags, err := s.Flags(ctx, identifier)
	if err != nil {
		zap.L().Warn("featureflags: evaluation failed, using fallback",
			zap.String("feature", feature), zap.Bool("fallback", fallback), zap.Error(err))
		return fallback
	}

	enabled, err := flags.IsFeatureEnabled(feature)
	if err != nil {
		return fallback
	}
	return enabled
}

func (s *featureflag) Flags(ctx context.Context, identifier string, traits ...*flagsmith.Trait) (flagsmith.Flags, error) {
	if identifier == "" {
		return s.client.GetEnvironmentFlags()
	}
	return s.client.GetIdentityFlags(identifier, traits)
}

// Static answers every feature with a fixed value, for tests and tooling.
type Static map[string]bool

func (s Static) IsEnabled(ctx context.Context, feature, identifier string, fallback bool) bool {
	if v, ok := s[feature]; ok {
		return v
	}
	return fallback
}

func (s Static) Flags(ctx context.Context, identifier string, traits ...*flagsmith.Trait) (flagsmith.Flags, error) {
	return flagsmith.Flags{}, nil
}
