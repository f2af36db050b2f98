// Package comprehend implements language.EntityExtractor and
// language.SentimentAnalyzer with Amazon Comprehend.
package comprehend

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/comprehend"
	"github.com/aws/aws-sdk-go-v2/service/comprehend/types"

	"github.com/nadzzz/aigateway/internal/config"
	"github.com/nadzzz/aigateway/internal/language"
)

// API is the subset of the Comprehend client used here.
type API interface {
	DetectEntities(ctx context.Context, params *comprehend.DetectEntitiesInput, optFns ...func(*comprehend.Options)) (*comprehend.DetectEntitiesOutput, error)
	DetectSentiment(ctx context.Context, params *comprehend.DetectSentimentInput, optFns ...func(*comprehend.Options)) (*comprehend.DetectSentimentOutput, error)
}

// Analyzer calls Comprehend's real-time detection operations.
type Analyzer struct {
	api          API
	languageCode types.LanguageCode
}

// New builds a Comprehend client from explicit configuration. Static
// credentials are used when both keys are set; otherwise the SDK's default
// chain applies.
func New(ctx context.Context, awsCfg config.AWSConfig, langCfg config.LanguageConfig) (*Analyzer, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(awsCfg.Region),
	}
	if awsCfg.AccessKeyID != "" && awsCfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(awsCfg.AccessKeyID, awsCfg.SecretAccessKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := comprehend.NewFromConfig(cfg, func(o *comprehend.Options) {
		if awsCfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(awsCfg.Endpoint)
		}
	})
	return NewWithAPI(client, langCfg.LanguageCode), nil
}

// NewWithAPI wraps an existing client.
func NewWithAPI(api API, languageCode string) *Analyzer {
	if languageCode == "" {
		languageCode = "en"
	}
	return &Analyzer{api: api, languageCode: types.LanguageCode(languageCode)}
}

// Entities returns each detected entity with its Comprehend type
// (PERSON, LOCATION, ORGANIZATION, DATE, ...).
func (a *Analyzer) Entities(ctx context.Context, text string) ([]language.Entity, error) {
	out, err := a.api.DetectEntities(ctx, &comprehend.DetectEntitiesInput{
		Text:         aws.String(text),
		LanguageCode: a.languageCode,
	})
	if err != nil {
		return nil, fmt.Errorf("detect entities: %w", err)
	}

	entities := make([]language.Entity, 0, len(out.Entities))
	for _, e := range out.Entities {
		entities = append(entities, language.Entity{
			Text:     aws.ToString(e.Text),
			Category: string(e.Type),
		})
	}

	slog.Debug("entity detection complete", "entities", len(entities))
	return entities, nil
}

// Sentiment returns the dominant sentiment label.
func (a *Analyzer) Sentiment(ctx context.Context, text string) (string, error) {
	out, err := a.api.DetectSentiment(ctx, &comprehend.DetectSentimentInput{
		Text:         aws.String(text),
		LanguageCode: a.languageCode,
	})
	if err != nil {
		return "", fmt.Errorf("detect sentiment: %w", err)
	}

	slog.Debug("sentiment detection complete", "sentiment", out.Sentiment)
	return string(out.Sentiment), nil
}
