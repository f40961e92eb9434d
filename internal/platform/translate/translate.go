// Package translate turns recipe text into the catalog language. Translation
// is best-effort: every provider falls back to the original text on failure so
// that a broken translation service never fails an import.
package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Translator translates a text fragment into the configured target language.
type Translator interface {
	Translate(ctx context.Context, text string) string
}

// Options configures a translation provider.
type Options struct {
	Provider   string // "libretranslate" or "deepl"
	Endpoint   string
	APIKey     string
	SourceLang string
	TargetLang string
	Timeout    time.Duration
}

// New builds the configured translation provider.
func New(opts Options, logger *zap.Logger) (Translator, error) {
	switch opts.Provider {
	case "libretranslate":
		endpoint := opts.Endpoint
		if endpoint == "" {
			endpoint = "https://libretranslate.com"
		}
		return NewLibreTranslate(endpoint, opts.SourceLang, opts.TargetLang, opts.Timeout, logger), nil
	case "deepl":
		endpoint := opts.Endpoint
		if endpoint == "" {
			endpoint = "https://api-free.deepl.com"
		}
		return NewDeepL(endpoint, opts.APIKey, opts.TargetLang, opts.Timeout, logger), nil
	default:
		return nil, fmt.Errorf("unknown translate provider %q", opts.Provider)
	}
}

// LibreTranslate calls a LibreTranslate-compatible endpoint.
type LibreTranslate struct {
	http   *resty.Client
	source string
	target string
	logger *zap.Logger
}

// NewLibreTranslate creates a LibreTranslate provider.
func NewLibreTranslate(endpoint, source, target string, timeout time.Duration, logger *zap.Logger) *LibreTranslate {
	return &LibreTranslate{
		http:   resty.New().SetBaseURL(endpoint).SetTimeout(timeout),
		source: source,
		target: target,
		logger: logger,
	}
}

// Translate translates text, returning it unchanged on any failure.
// Empty or whitespace-only input returns "" without a network call.
func (t *LibreTranslate) Translate(ctx context.Context, text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	var out struct {
		TranslatedText string `json:"translatedText"`
	}
	resp, err := t.http.R().
		SetContext(ctx).
		SetBody(map[string]string{
			"q":      text,
			"source": t.source,
			"target": t.target,
			"format": "text",
		}).
		SetResult(&out).
		Post("/translate")
	if err != nil {
		t.logger.Warn("translation failed, keeping original text", zap.Error(err))
		return text
	}
	if resp.IsError() || out.TranslatedText == "" {
		t.logger.Warn("translation returned no result, keeping original text",
			zap.Int("status", resp.StatusCode()))
		return text
	}
	return out.TranslatedText
}

// DeepL calls the DeepL form-encoded translation API.
type DeepL struct {
	http   *resty.Client
	apiKey string
	target string
	logger *zap.Logger
}

// NewDeepL creates a DeepL provider.
func NewDeepL(endpoint, apiKey, target string, timeout time.Duration, logger *zap.Logger) *DeepL {
	return &DeepL{
		http:   resty.New().SetBaseURL(endpoint).SetTimeout(timeout),
		apiKey: apiKey,
		target: strings.ToUpper(target),
		logger: logger,
	}
}

// Translate translates text, returning it unchanged on any failure. The
// response body is parsed manually so that an empty body or malformed JSON
// degrades to the original text instead of erroring.
func (t *DeepL) Translate(ctx context.Context, text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	resp, err := t.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"auth_key":    t.apiKey,
			"text":        text,
			"target_lang": t.target,
		}).
		Post("/v2/translate")
	if err != nil {
		t.logger.Warn("translation failed, keeping original text", zap.Error(err))
		return text
	}
	if resp.IsError() || len(resp.Body()) == 0 {
		t.logger.Warn("translation returned no result, keeping original text",
			zap.Int("status", resp.StatusCode()))
		return text
	}

	var out struct {
		Translations []struct {
			Text string `json:"text"`
		} `json:"translations"`
	}
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		t.logger.Warn("translation response was malformed, keeping original text", zap.Error(err))
		return text
	}
	if len(out.Translations) == 0 || out.Translations[0].Text == "" {
		return text
	}
	return out.Translations[0].Text
}
