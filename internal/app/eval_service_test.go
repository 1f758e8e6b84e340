package app

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evalhub/internal/ai"
	"evalhub/internal/model"
)

type fakeEvalStore struct {
	mu        sync.Mutex
	remaining int
	mdl       *model.AIModel
	tmpl      *model.PromptTemplate
	files     []model.KnowledgeFile

	finalizeErr error
	entries     []model.EvalLog
	pinnedSeen  uint
}

func (s *fakeEvalStore) RemainingEvals(uint) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remaining, nil
}

func (s *fakeEvalStore) ActiveModel(pinnedID uint) (*model.AIModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pinnedSeen = pinnedID
	return s.mdl, nil
}

func (s *fakeEvalStore) TemplateByType(string) (*model.PromptTemplate, error) {
	return s.tmpl, nil
}

func (s *fakeEvalStore) FilesByIDs([]uint) ([]model.KnowledgeFile, error) {
	return s.files, nil
}

func (s *fakeEvalStore) Finalize(_ uint, entry *model.EvalLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finalizeErr != nil {
		return s.finalizeErr
	}
	if s.remaining <= 0 {
		return errors.New("no credit")
	}
	s.remaining--
	s.entries = append(s.entries, *entry)
	return nil
}

type fakeProvider struct {
	mu       sync.Mutex
	chunks   []string
	err      error
	calls    int
	lastCfg  ai.ChatConfig
	lastMsgs []ai.ChatMessage
}

func (p *fakeProvider) StreamComplete(ctx context.Context, cfg ai.ChatConfig, messages []ai.ChatMessage, onChunk func(string) error) (string, error) {
	p.mu.Lock()
	p.calls++
	p.lastCfg = cfg
	p.lastMsgs = messages
	p.mu.Unlock()

	var full strings.Builder
	for _, chunk := range p.chunks {
		if err := onChunk(chunk); err != nil {
			return "", err
		}
		full.WriteString(chunk)
	}
	if p.err != nil {
		return "", p.err
	}
	return full.String(), nil
}

func (p *fakeProvider) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func activeTestModel() *model.AIModel {
	return &model.AIModel{ID: 3, Name: "gpt-test", BaseURL: "https://llm.example", APIKey: "k", ModelName: "gpt-4o-mini", IsActive: true}
}

func TestEvaluate_EmptyInput(t *testing.T) {
	store := &fakeEvalStore{remaining: 5, mdl: activeTestModel()}
	provider := &fakeProvider{chunks: []string{"x"}}
	svc := NewEvalService(store, provider, nil, testLogger())

	_, err := svc.Evaluate(context.Background(), EvalInput{UserID: 1, Input: "   \n\t "})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, 0, provider.callCount(), "the provider must not be called for empty input")
	assert.Equal(t, 5, store.remaining, "no credit may be consumed")
}

func TestEvaluate_InvalidType(t *testing.T) {
	store := &fakeEvalStore{remaining: 5, mdl: activeTestModel()}
	svc := NewEvalService(store, &fakeProvider{}, nil, testLogger())

	_, err := svc.Evaluate(context.Background(), EvalInput{UserID: 1, Input: "text", Type: "UNKNOWN"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestEvaluate_QuotaExhausted(t *testing.T) {
	store := &fakeEvalStore{remaining: 0, mdl: activeTestModel()}
	provider := &fakeProvider{chunks: []string{"x"}}
	svc := NewEvalService(store, provider, nil, testLogger())

	_, err := svc.Evaluate(context.Background(), EvalInput{UserID: 1, Input: "evaluate this"})
	assert.ErrorIs(t, err, ErrQuotaExhausted)
	assert.Equal(t, 0, provider.callCount())
}

func TestEvaluate_NoActiveModel(t *testing.T) {
	store := &fakeEvalStore{remaining: 5, mdl: nil}
	svc := NewEvalService(store, &fakeProvider{}, nil, testLogger())

	_, err := svc.Evaluate(context.Background(), EvalInput{UserID: 1, Input: "evaluate this"})
	assert.ErrorIs(t, err, ErrNoModelConfigured)
}

func TestEvaluate_StreamAndFinalize(t *testing.T) {
	store := &fakeEvalStore{remaining: 3, mdl: activeTestModel()}
	provider := &fakeProvider{chunks: []string{"hel", "lo ", "world"}}
	audit := &recordingAudit{}
	svc := NewEvalService(store, provider, audit, testLogger())

	stream, err := svc.Evaluate(context.Background(), EvalInput{UserID: 1, Input: "hello"})
	require.NoError(t, err)

	var got []string
	for fragment := range stream.Fragments() {
		got = append(got, fragment)
	}
	output, err := stream.Wait()
	require.NoError(t, err)

	assert.Equal(t, []string{"hel", "lo ", "world"}, got, "fragments arrive in provider order")
	assert.Equal(t, "hello world", output)
	assert.Equal(t, 2, store.remaining, "exactly one credit is consumed")

	require.Len(t, store.entries, 1)
	entry := store.entries[0]
	assert.Equal(t, uint(1), entry.UserID)
	assert.Equal(t, model.EvalTypeSuggestion, entry.Type, "type defaults to SUGGESTION")
	assert.Equal(t, "hello", entry.Input)
	assert.Equal(t, "hello world", entry.Output)
	// 5 input chars + 11 output chars => ceil(16/4)
	assert.Equal(t, 4, entry.TokensUsed)
	assert.Equal(t, uint(3), entry.ModelID)

	assert.Equal(t, []string{model.AuditActionCompleteEval}, audit.actions())

	// Without a template, the default system prompt goes to the provider.
	require.Len(t, provider.lastMsgs, 2)
	assert.Equal(t, "system", provider.lastMsgs[0].Role)
	assert.NotEmpty(t, provider.lastMsgs[0].Content)
	assert.Equal(t, "hello", provider.lastMsgs[1].Content)
}

func TestEvaluate_LongInputPreview(t *testing.T) {
	store := &fakeEvalStore{remaining: 1, mdl: activeTestModel()}
	provider := &fakeProvider{chunks: []string{"ok"}}
	svc := NewEvalService(store, provider, nil, testLogger())

	input := strings.Repeat("评", 80)
	stream, err := svc.Evaluate(context.Background(), EvalInput{UserID: 1, Input: input})
	require.NoError(t, err)
	for range stream.Fragments() {
	}
	_, err = stream.Wait()
	require.NoError(t, err)

	require.Len(t, store.entries, 1)
	assert.Equal(t, strings.Repeat("评", 50)+"...", store.entries[0].Input, "preview keeps 50 characters plus ellipsis")
}

func TestEvaluate_ProviderFailure(t *testing.T) {
	store := &fakeEvalStore{remaining: 2, mdl: activeTestModel()}
	provider := &fakeProvider{chunks: []string{"par"}, err: errors.New("upstream 500")}
	svc := NewEvalService(store, provider, nil, testLogger())

	stream, err := svc.Evaluate(context.Background(), EvalInput{UserID: 1, Input: "hello"})
	require.NoError(t, err)
	for range stream.Fragments() {
	}
	_, err = stream.Wait()

	assert.ErrorIs(t, err, ErrProviderFailed)
	assert.Equal(t, 2, store.remaining, "a failed stream must not consume a credit")
	assert.Empty(t, store.entries)
}

func TestEvaluate_PinnedModelPassedThrough(t *testing.T) {
	tmpl := &model.PromptTemplate{ID: 9, Type: model.EvalTypePolicy, SystemPrompt: "judge strictly", ModelID: 42}
	store := &fakeEvalStore{remaining: 1, mdl: activeTestModel(), tmpl: tmpl}
	provider := &fakeProvider{chunks: []string{"ok"}}
	svc := NewEvalService(store, provider, nil, testLogger())

	stream, err := svc.Evaluate(context.Background(), EvalInput{UserID: 1, Input: "hello", Type: model.EvalTypePolicy})
	require.NoError(t, err)
	for range stream.Fragments() {
	}
	_, err = stream.Wait()
	require.NoError(t, err)

	assert.Equal(t, uint(42), store.pinnedSeen, "the template's pinned model id is forwarded to selection")
	assert.Equal(t, "judge strictly", provider.lastMsgs[0].Content)
}

func TestEvaluate_TemplateWithAttachments(t *testing.T) {
	content := "rubric body"
	tmpl := &model.PromptTemplate{ID: 9, Type: model.EvalTypeSuggestion, SystemPrompt: "use @rubric.txt here"}
	tmpl.SetAttachedFileIDs([]uint{5})
	store := &fakeEvalStore{
		remaining: 1,
		mdl:       activeTestModel(),
		tmpl:      tmpl,
		files:     []model.KnowledgeFile{{ID: 5, Name: "rubric.txt", Content: &content}},
	}
	provider := &fakeProvider{chunks: []string{"ok"}}
	svc := NewEvalService(store, provider, nil, testLogger())

	stream, err := svc.Evaluate(context.Background(), EvalInput{UserID: 1, Input: "hello"})
	require.NoError(t, err)
	for range stream.Fragments() {
	}
	_, err = stream.Wait()
	require.NoError(t, err)

	assert.Equal(t, "use rubric body here", provider.lastMsgs[0].Content)
}
