package generator

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"contract-portal/contract-portal-backend/internal/contracts"
)

// Chain tries its generators in order and returns the first successful
// result. The intended composition is google_docs -> html_pdf -> raw_pdf,
// with the raw backend acting as the correctness floor: it has no network
// dependency and never fails for validated input.
type Chain struct {
	generators []Generator
	logger     *zap.Logger
}

func NewChain(logger *zap.Logger, generators ...Generator) *Chain {
	return &Chain{
		generators: generators,
		logger:     logger,
	}
}

// Kinds returns the backend kinds in fallback order.
func (c *Chain) Kinds() []Kind {
	kinds := make([]Kind, len(c.generators))
	for i, g := range c.generators {
		kinds[i] = g.Kind()
	}
	return kinds
}

// ByKind returns the registered generator for kind.
func (c *Chain) ByKind(kind Kind) (Generator, error) {
	for _, g := range c.generators {
		if g.Kind() == kind {
			return g, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
}

// Generate runs the fallback chain. A backend failure is logged and the next
// backend is attempted; the error of the last backend is returned when all
// fail.
func (c *Chain) Generate(ctx context.Context, data contracts.ContractData) (*Result, error) {
	if len(c.generators) == 0 {
		return nil, fmt.Errorf("generation chain is empty")
	}

	var lastErr error
	for _, g := range c.generators {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result, err := g.Generate(ctx, data)
		if err == nil {
			return result, nil
		}
		lastErr = err
		c.logger.Warn("generation backend failed, falling back",
			zap.String("backend", string(g.Kind())),
			zap.String("contract_number", data.ContractNumber),
			zap.Error(err))
	}

	return nil, fmt.Errorf("all generation backends failed: %w", lastErr)
}
