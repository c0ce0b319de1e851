package quiz

import (
	"context"
	"fmt"
	"log"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/revisely/backend/internal/diagram"
	"github.com/revisely/backend/internal/generator"
	"github.com/revisely/backend/internal/models"
)

// minBankSize is the floor for a generated bank; requests asking for
// fewer questions per session still get a bank big enough to feed all
// eight review sets.
const minBankSize = 80

// bankOversampleFactor inflates the per-session request into the bank
// total so later sets do not run dry.
const bankOversampleFactor = 2.5

// maxConcurrentRenders bounds the diagram render fan-out.
const maxConcurrentRenders = 4

// TotalQuestions maps a requested per-session count to the size of the
// bank to generate.
func TotalQuestions(requested int) int {
	total := int(math.Round(float64(requested) * bankOversampleFactor))
	if total < minBankSize {
		return minBankSize
	}
	return total
}

// QuestionGenerator produces raw question candidates for a learning
// request. Implemented by generator.Generator.
type QuestionGenerator interface {
	GenerateQuestionBank(ctx context.Context, req models.LearningRequest, totalQuestions int) ([]generator.RawQuestion, error)
}

// BankBuilder turns a learning request into a complete question bank:
// generate candidates, normalize each one, partition into the eight
// review sets, and render any requested diagrams.
type BankBuilder struct {
	gen      QuestionGenerator
	renderer diagram.Renderer
}

// NewBankBuilder constructs a builder. renderer may be nil, in which
// case diagram instructions are kept but never rendered.
func NewBankBuilder(gen QuestionGenerator, renderer diagram.Renderer) *BankBuilder {
	return &BankBuilder{gen: gen, renderer: renderer}
}

// Build generates and assembles a bank for req. It returns
// ErrGenerationFailed when no usable candidates come back and
// ErrIncompleteBank when the partition leaves any set empty.
func (b *BankBuilder) Build(ctx context.Context, req models.LearningRequest) (*models.QuestionBank, error) {
	total := TotalQuestions(req.QuestionCount)

	candidates, err := b.gen.GenerateQuestionBank(ctx, req, total)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	questions := NormalizeBatch(candidates)

	if req.DiagramSupport && b.renderer != nil {
		b.renderDiagrams(ctx, questions)
	}

	bank := &models.QuestionBank{Signature: models.NewBankSignature(req)}
	for _, q := range questions {
		bank.Sets[q.SetNumber-1] = append(bank.Sets[q.SetNumber-1], q)
	}

	for i, set := range bank.Sets {
		if len(set) == 0 {
			return nil, fmt.Errorf("%w: set %d got no questions from a batch of %d",
				ErrIncompleteBank, i+1, len(questions))
		}
	}

	return bank, nil
}

// renderDiagrams resolves diagram instructions to URLs concurrently.
// Render failures only cost the diagram, never the question.
func (b *BankBuilder) renderDiagrams(ctx context.Context, questions []models.Question) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentRenders)

	for i := range questions {
		if questions[i].DiagramInstruction == "" {
			continue
		}
		q := &questions[i]
		g.Go(func() error {
			url, err := b.renderer.Render(ctx, q.DiagramInstruction)
			if err != nil {
				log.Printf("WARN: diagram render failed for question %d: %v", q.ID, err)
				return nil
			}
			q.DiagramURL = url
			return nil
		})
	}

	// Workers never return errors, so Wait only synchronizes.
	_ = g.Wait()
}
