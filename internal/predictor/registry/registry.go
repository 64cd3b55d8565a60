package registry

import (
	"fmt"
	"strings"

	"github.com/yungbote/diabetes-app/internal/config"
	"github.com/yungbote/diabetes-app/internal/predictor"
	"github.com/yungbote/diabetes-app/internal/predictor/mock"
	"github.com/yungbote/diabetes-app/internal/predictor/remote"
	"github.com/yungbote/diabetes-app/internal/predictor/tree"
)

// New builds the engine named by cfg.Engine.
func New(cfg config.ModelConfig) (predictor.Predictor, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Engine)) {
	case config.EngineTree, "":
		e, err := tree.Load(cfg.Path)
		if err != nil {
			return nil, err
		}
		return e, nil
	case config.EngineHTTP:
		e, err := remote.New(cfg)
		if err != nil {
			return nil, err
		}
		return e, nil
	case config.EngineMock:
		return mock.New(cfg.MockLabel), nil
	default:
		return nil, fmt.Errorf("unsupported model engine %q", cfg.Engine)
	}
}

// Describe names p for startup logs.
func Describe(p predictor.Predictor) string {
	if d, ok := p.(predictor.Describer); ok {
		return d.Describe()
	}
	return fmt.Sprintf("%T", p)
}
