package bootstrap

import (
	"go.uber.org/zap"

	"github.com/kailas-cloud/resumerank/internal/config"
	"github.com/kailas-cloud/resumerank/internal/export/xlsx"
	"github.com/kailas-cloud/resumerank/internal/render"
	exportuc "github.com/kailas-cloud/resumerank/internal/usecase/export"
	feedbackuc "github.com/kailas-cloud/resumerank/internal/usecase/feedback"
	keyworduc "github.com/kailas-cloud/resumerank/internal/usecase/keyword"
	rankinguc "github.com/kailas-cloud/resumerank/internal/usecase/ranking"
)

// NewRanking configures the ranking service from the ranking section.
func NewRanking(cfg *config.Config, scorer rankinguc.Scorer, logger *zap.Logger) *rankinguc.Service {
	rc := cfg.Ranking
	svc := rankinguc.New(scorer, keyworduc.New().WithMaxKeywords(rc.MaxKeywords), logger).
		WithWorkers(rc.Workers).
		WithPartialOnCancel(rc.PartialOnCancel)
	if rc.WeightSimilarity != nil {
		svc = svc.WithWeight(*rc.WeightSimilarity)
	}
	return svc
}

// NewComposer configures the feedback composer.
func NewComposer(cfg *config.Config) *feedbackuc.Composer {
	return feedbackuc.New().WithMaxListed(cfg.Ranking.FeedbackMaxItems)
}

// NewExports wires the workbook writer and PDF renderer. runs may be nil when
// only in-memory lists are exported; sheets are attached by the caller.
func NewExports(cfg *config.Config, runs exportuc.RunReader, composer *feedbackuc.Composer) *exportuc.Service {
	return exportuc.New(runs, composer).
		WithWorkbook(xlsx.New(cfg.Export.XLSXSheet)).
		WithRenderer(render.NewPDF())
}
