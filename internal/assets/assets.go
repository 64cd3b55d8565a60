// Package assets serves the decision-path images by name.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/yungbote/diabetes-app/internal/decisionpath"
	"github.com/yungbote/diabetes-app/internal/platform/logger"
)

var ErrNotFound = errors.New("asset not found")

const maxAssetBytes = 8 << 20

// Source opens an asset by its bare file name.
type Source interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// Renderer produces an asset when no source has it.
type Renderer interface {
	RenderAsset(name string) ([]byte, error)
}

// Service restricts lookups to the known path images, tries the primary source,
// then falls back to rendering. Rendered images are cached for the process
// lifetime.
type Service struct {
	primary  Source
	renderer Renderer
	log      *logger.Logger

	mu       sync.RWMutex
	rendered map[string][]byte
}

func NewService(primary Source, renderer Renderer, log *logger.Logger) *Service {
	return &Service{
		primary:  primary,
		renderer: renderer,
		log:      log.With("service", "AssetService"),
		rendered: map[string][]byte{},
	}
}

func (s *Service) Get(ctx context.Context, name string) ([]byte, error) {
	if !decisionpath.KnownAsset(name) {
		return nil, ErrNotFound
	}

	if s.primary != nil {
		b, err := readAll(ctx, s.primary, name)
		if err == nil {
			return b, nil
		}
		if !errors.Is(err, ErrNotFound) {
			s.log.Warn("asset source failed", "asset", name, "error", err)
		}
	}

	if s.renderer == nil {
		return nil, ErrNotFound
	}

	s.mu.RLock()
	b, ok := s.rendered[name]
	s.mu.RUnlock()
	if ok {
		return b, nil
	}

	b, err := s.renderer.RenderAsset(name)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	s.mu.Lock()
	s.rendered[name] = b
	s.mu.Unlock()
	s.log.Debug("rendered path asset", "asset", name, "bytes", len(b))
	return b, nil
}

func readAll(ctx context.Context, src Source, name string) ([]byte, error) {
	rc, err := src.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	b, err := io.ReadAll(io.LimitReader(rc, maxAssetBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return b, nil
}
