package app

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"evalhub/internal/ai"
	"evalhub/internal/model"
	"evalhub/internal/pkg/prompttmpl"
)

var (
	ErrQuotaExhausted    = errors.New("no evaluations remaining")
	ErrNoModelConfigured = errors.New("no active ai model configured")
	ErrProviderFailed    = errors.New("evaluation service unavailable")
)

// defaultSystemPrompt is used when no template is configured for the
// requested evaluation type.
const defaultSystemPrompt = "你是一个专业的文本评测助手。请对用户输入的文本进行详细分析，给出建设性的建议和评价。"

const (
	inputPreviewLimit = 50
	fragmentBuffer    = 32
)

// EvalStore is the persistence slice the pipeline needs: the credit
// pre-check, model and template selection, and the finalize transaction.
type EvalStore interface {
	RemainingEvals(userID uint) (int, error)
	ActiveModel(pinnedID uint) (*model.AIModel, error)
	TemplateByType(evalType string) (*model.PromptTemplate, error)
	FilesByIDs(ids []uint) ([]model.KnowledgeFile, error)
	Finalize(userID uint, entry *model.EvalLog) error
}

// ChatProvider streams a chat completion, invoking onChunk per fragment in
// provider order and returning the full output.
type ChatProvider interface {
	StreamComplete(ctx context.Context, cfg ai.ChatConfig, messages []ai.ChatMessage, onChunk func(string) error) (string, error)
}

type EvalService struct {
	store    EvalStore
	provider ChatProvider
	audit    AuditPublisher
	logger   *slog.Logger
}

type EvalInput struct {
	UserID uint
	Input  string
	Type   string
	Meta   RequestMeta
}

// EvalStream carries one in-flight evaluation. Fragments is closed when the
// provider stream ends; Wait blocks until bookkeeping is done and reports the
// stream outcome.
type EvalStream struct {
	fragments chan string
	done      chan struct{}
	output    string
	err       error
}

func (st *EvalStream) Fragments() <-chan string {
	return st.fragments
}

func (st *EvalStream) Wait() (string, error) {
	<-st.done
	return st.output, st.err
}

func NewEvalService(store EvalStore, provider ChatProvider, audit AuditPublisher, logger *slog.Logger) *EvalService {
	return &EvalService{
		store:    store,
		provider: provider,
		audit:    audit,
		logger:   logger,
	}
}

// Evaluate runs the pre-stream checks synchronously and, when they pass,
// starts the provider stream in the background. Fragments arrive on the
// returned stream's bounded channel in provider order; cancellation of ctx
// aborts the provider call and skips finalize entirely.
func (s *EvalService) Evaluate(ctx context.Context, in EvalInput) (*EvalStream, error) {
	input := strings.TrimSpace(in.Input)
	if input == "" {
		return nil, ErrInvalidInput
	}

	evalType := in.Type
	if evalType == "" {
		evalType = model.EvalTypeSuggestion
	}
	if evalType != model.EvalTypeSuggestion && evalType != model.EvalTypePolicy {
		return nil, ErrInvalidInput
	}

	remaining, err := s.store.RemainingEvals(in.UserID)
	if err != nil {
		return nil, err
	}
	if remaining <= 0 {
		return nil, ErrQuotaExhausted
	}

	tmpl, err := s.store.TemplateByType(evalType)
	if err != nil {
		return nil, err
	}

	var pinnedID uint
	if tmpl != nil {
		pinnedID = tmpl.ModelID
	}
	mdl, err := s.store.ActiveModel(pinnedID)
	if err != nil {
		return nil, err
	}
	if mdl == nil {
		return nil, ErrNoModelConfigured
	}

	systemPrompt, err := s.assemblePrompt(tmpl)
	if err != nil {
		return nil, err
	}

	st := &EvalStream{
		fragments: make(chan string, fragmentBuffer),
		done:      make(chan struct{}),
	}
	go s.run(ctx, st, mdl, systemPrompt, input, evalType, in)
	return st, nil
}

func (s *EvalService) assemblePrompt(tmpl *model.PromptTemplate) (string, error) {
	if tmpl == nil || strings.TrimSpace(tmpl.SystemPrompt) == "" {
		return defaultSystemPrompt, nil
	}

	ids := tmpl.AttachedFileIDs()
	if len(ids) == 0 {
		return tmpl.SystemPrompt, nil
	}

	files, err := s.store.FilesByIDs(ids)
	if err != nil {
		return "", err
	}
	attachments := make([]prompttmpl.Attachment, 0, len(files))
	for _, f := range files {
		att := prompttmpl.Attachment{Name: f.Name}
		if f.HasContent() {
			att.Content = *f.Content
		}
		attachments = append(attachments, att)
	}
	return prompttmpl.Render(tmpl.SystemPrompt, attachments), nil
}

func (s *EvalService) run(ctx context.Context, st *EvalStream, mdl *model.AIModel, systemPrompt, input, evalType string, in EvalInput) {
	defer close(st.done)

	cfg := ai.ChatConfig{
		BaseURL: mdl.BaseURL,
		APIKey:  mdl.APIKey,
		Model:   mdl.ModelName,
	}
	messages := []ai.ChatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: input},
	}

	output, err := s.provider.StreamComplete(ctx, cfg, messages, func(chunk string) error {
		select {
		case st.fragments <- chunk:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
	close(st.fragments)

	if err != nil {
		// Provider detail stays server-side; the client sees a generic failure.
		s.logger.Error("provider stream failed", "model", mdl.Name, "error", err)
		st.err = ErrProviderFailed
		return
	}
	st.output = output

	entry := &model.EvalLog{
		UserID:     in.UserID,
		Type:       evalType,
		Input:      previewInput(input),
		Output:     output,
		TokensUsed: estimateTokens(input, output),
		ModelID:    mdl.ID,
	}
	// The client already holds the full output at this point; a finalize
	// failure is logged but does not surface on the stream.
	if err := s.store.Finalize(in.UserID, entry); err != nil {
		s.logger.Error("finalize evaluation failed", "user_id", in.UserID, "error", err)
		return
	}

	if s.audit != nil {
		audit := model.AuditLog{
			UserID:    in.UserID,
			Action:    model.AuditActionCompleteEval,
			IP:        in.Meta.IP,
			UserAgent: in.Meta.UserAgent,
		}
		audit.SetMetadata(map[string]any{"type": evalType, "tokens_used": entry.TokensUsed, "model_id": mdl.ID})
		// Finalize may outlive the request; audit publish gets its own context.
		if err := s.audit.Publish(context.Background(), audit); err != nil {
			s.logger.Warn("publish audit event failed", "action", audit.Action, "error", err)
		}
	}
}

func previewInput(input string) string {
	if utf8.RuneCountInString(input) <= inputPreviewLimit {
		return input
	}
	runes := []rune(input)
	return string(runes[:inputPreviewLimit]) + "..."
}

// estimateTokens approximates usage as ceil((len(input)+len(output))/4),
// counting characters rather than bytes.
func estimateTokens(input, output string) int {
	total := utf8.RuneCountInString(input) + utf8.RuneCountInString(output)
	return (total + 3) / 4
}
