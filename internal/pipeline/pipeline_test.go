package pipeline

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	goerrors "errors"
	"strings"
	"testing"

	"foliogen/internal/ai"
	"foliogen/internal/errors"
	"foliogen/internal/types"
)

type fakeProvider struct {
	profile      types.RawProfile
	scorecard    types.Scorecard
	tokens       *ai.TokenUsage
	extractErr   error
	scoreErr     error
	extractCalls int
	scoreCalls   int
}

func (f *fakeProvider) ExtractProfile(ctx context.Context, resumeText string) (types.RawProfile, *ai.TokenUsage, error) {
	f.extractCalls++
	return f.profile, f.tokens, f.extractErr
}

func (f *fakeProvider) ScoreResume(ctx context.Context, resumeText string) (types.Scorecard, *ai.TokenUsage, error) {
	f.scoreCalls++
	return f.scorecard, f.tokens, f.scoreErr
}

func (f *fakeProvider) GetModelInfo(ctx context.Context) *ai.ModelInfo { return nil }

func (f *fakeProvider) Close() error { return nil }

type fakeObjects struct {
	objects  map[string][]byte
	putOrder []string
	failPut  string
	getErr   error
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{objects: map[string][]byte{}}
}

func (f *fakeObjects) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if f.failPut != "" && strings.Contains(key, f.failPut) {
		return "", errors.NewStorageError(errors.ErrCodeStorageWriteFailed, "upload failed", nil)
	}
	f.objects[key] = data
	f.putOrder = append(f.putOrder, key)
	return f.URL(key), nil
}

func (f *fakeObjects) Get(ctx context.Context, key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	data, ok := f.objects[key]
	if !ok {
		return nil, errors.NewStorageError(errors.ErrCodeStorageReadFailed, "object not found", nil)
	}
	return data, nil
}

func (f *fakeObjects) URL(key string) string {
	return "http://storage.local/portfolios/" + key
}

type fakeRecords struct {
	inserted  []types.PortfolioRecord
	insertErr error
	published map[string]types.PortfolioRecord
}

func newFakeRecords() *fakeRecords {
	return &fakeRecords{published: map[string]types.PortfolioRecord{}}
}

func (f *fakeRecords) Insert(ctx context.Context, rec types.PortfolioRecord) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, rec)
	return nil
}

func (f *fakeRecords) Publish(ctx context.Context, slug string) error { return nil }

func (f *fakeRecords) Delete(ctx context.Context, slug string) error { return nil }

func (f *fakeRecords) GetPublished(ctx context.Context, slug string) (types.PortfolioRecord, error) {
	rec, ok := f.published[slug]
	if !ok {
		return types.PortfolioRecord{}, errors.NewValidationError(errors.ErrCodeRecordNotFound, "portfolio not found", nil)
	}
	return rec, nil
}

func (f *fakeRecords) CountByStatus(ctx context.Context) (map[types.Status]int64, error) {
	return map[types.Status]int64{types.StatusDraft: int64(len(f.inserted))}, nil
}

func buildDocx(t *testing.T, text string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("failed to create zip entry: %v", err)
	}
	if _, err := w.Write([]byte("<w:document><w:body><w:p><w:r><w:t>" + text + "</w:t></w:r></w:p></w:body></w:document>")); err != nil {
		t.Fatalf("failed to write document.xml: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
	return buf.Bytes()
}

func testProvider() *fakeProvider {
	return &fakeProvider{
		profile: types.RawProfile{
			PersonalInfo: types.RawPersonalInfo{
				FullName: "Ada Lovelace",
				Title:    "Software Engineer",
				Email:    "ada@example.com",
				Location: "London",
			},
			Skills: json.RawMessage(`["Go","SQL"]`),
		},
		scorecard: types.Scorecard{
			OverallScore: 82,
			ATSScore:     75,
			TotalIssues:  1,
			Sections: []types.ScoreSection{
				{Name: "Formatting", Score: 90, Issues: []types.ScoreIssue{
					{Severity: "info", Message: "Dense paragraphs", Suggestion: "Use bullet points"},
				}},
			},
		},
		tokens: &ai.TokenUsage{InputTokens: 100, OutputTokens: 50, TotalTokens: 150},
	}
}

func testLogger(t *testing.T) *errors.Logger {
	t.Helper()
	logger, err := errors.New("error")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	return logger
}

func TestGenerate(t *testing.T) {
	provider := testProvider()
	objects := newFakeObjects()
	records := newFakeRecords()
	p := New(provider, provider, objects, records, testLogger(t), nil)

	data := buildDocx(t, "Ada Lovelace. Software Engineer with analytical engine experience.")
	result, err := p.Generate(context.Background(), "resume.docx", data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(result.Slug, "ada-lovelace-software-engineer-") {
		t.Errorf("unexpected slug %q", result.Slug)
	}
	if !result.Indexed {
		t.Error("expected record to be indexed")
	}
	if result.Tokens == nil || result.Tokens.TotalTokens != 150 {
		t.Errorf("expected token usage to propagate, got %+v", result.Tokens)
	}

	// Resume upload happens before the JSON artifact
	if len(objects.putOrder) != 2 {
		t.Fatalf("expected 2 uploads, got %d", len(objects.putOrder))
	}
	if objects.putOrder[0] != result.Slug+"-resume.docx" {
		t.Errorf("unexpected resume key %q", objects.putOrder[0])
	}
	if objects.putOrder[1] != result.Slug+".json" {
		t.Errorf("unexpected json key %q", objects.putOrder[1])
	}

	var stored types.CandidateProfile
	if err := json.Unmarshal(objects.objects[result.Slug+".json"], &stored); err != nil {
		t.Fatalf("stored artifact not valid JSON: %v", err)
	}
	if stored.Status != types.StatusDraft {
		t.Errorf("stored status = %q, want draft", stored.Status)
	}
	if stored.Meta.OriginalResumeURL != result.ResumeURL {
		t.Errorf("stored resume URL = %q, want %q", stored.Meta.OriginalResumeURL, result.ResumeURL)
	}

	if len(records.inserted) != 1 {
		t.Fatalf("expected 1 indexed record, got %d", len(records.inserted))
	}
	rec := records.inserted[0]
	if rec.FullName != "Ada Lovelace" || rec.JobTitle != "Software Engineer" {
		t.Errorf("unexpected record identity: %+v", rec)
	}
	if rec.Status != types.StatusDraft {
		t.Errorf("record status = %q, want draft", rec.Status)
	}
	if rec.Slug != result.Slug {
		t.Errorf("record slug = %q, want %q", rec.Slug, result.Slug)
	}
}

func TestGenerateIndexFailureIsNotFatal(t *testing.T) {
	provider := testProvider()
	objects := newFakeObjects()
	records := newFakeRecords()
	records.insertErr = errors.NewDatabaseError(errors.ErrCodeRecordIndexFailed, "insert failed", nil)
	p := New(provider, provider, objects, records, testLogger(t), nil)

	data := buildDocx(t, "Ada Lovelace. Software Engineer.")
	result, err := p.Generate(context.Background(), "resume.docx", data)
	if err != nil {
		t.Fatalf("index failure should not fail generation: %v", err)
	}
	if result.Indexed {
		t.Error("expected Indexed=false after insert failure")
	}
	// Artifacts were still written
	if len(objects.putOrder) != 2 {
		t.Errorf("expected both artifacts uploaded, got %d", len(objects.putOrder))
	}
}

func TestGenerateResumeUploadFailureIsFatal(t *testing.T) {
	provider := testProvider()
	objects := newFakeObjects()
	objects.failPut = "-resume."
	records := newFakeRecords()
	p := New(provider, provider, objects, records, testLogger(t), nil)

	data := buildDocx(t, "Ada Lovelace. Software Engineer.")
	_, err := p.Generate(context.Background(), "resume.docx", data)
	if err == nil {
		t.Fatal("expected error when resume upload fails")
	}
	var appErr *errors.AppError
	if !goerrors.As(err, &appErr) || appErr.Code != errors.ErrCodeStorageWriteFailed {
		t.Errorf("expected STORAGE_WRITE_FAILED, got %v", err)
	}
	if len(records.inserted) != 0 {
		t.Error("no record should be indexed after a fatal upload failure")
	}
}

func TestGenerateJSONUploadFailureIsFatal(t *testing.T) {
	provider := testProvider()
	objects := newFakeObjects()
	objects.failPut = ".json"
	records := newFakeRecords()
	p := New(provider, provider, objects, records, testLogger(t), nil)

	data := buildDocx(t, "Ada Lovelace. Software Engineer.")
	_, err := p.Generate(context.Background(), "resume.docx", data)
	if err == nil {
		t.Fatal("expected error when JSON upload fails")
	}
	if len(records.inserted) != 0 {
		t.Error("no record should be indexed after a fatal upload failure")
	}
}

func TestGenerateRejectsUnsupportedFormat(t *testing.T) {
	provider := testProvider()
	p := New(provider, provider, newFakeObjects(), newFakeRecords(), testLogger(t), nil)

	_, err := p.Generate(context.Background(), "resume.txt", []byte("plain text"))
	if err == nil {
		t.Fatal("expected error for unsupported format")
	}
	var appErr *errors.AppError
	if !goerrors.As(err, &appErr) || appErr.Code != errors.ErrCodeInvalidFormat {
		t.Errorf("expected INVALID_FORMAT, got %v", err)
	}
	if provider.extractCalls != 0 {
		t.Error("AI provider should not be called for unsupported formats")
	}
}

func TestGenerateAIFailureIsTerminal(t *testing.T) {
	provider := testProvider()
	provider.extractErr = errors.NewAIError(errors.ErrCodeAIOutputUnparseable, "unparseable output", nil)
	objects := newFakeObjects()
	p := New(provider, provider, objects, newFakeRecords(), testLogger(t), nil)

	data := buildDocx(t, "Ada Lovelace. Software Engineer.")
	_, err := p.Generate(context.Background(), "resume.docx", data)
	if err == nil {
		t.Fatal("expected error when extraction fails")
	}
	if len(objects.putOrder) != 0 {
		t.Error("nothing should be uploaded when the AI call fails")
	}
}

func TestScan(t *testing.T) {
	provider := testProvider()
	p := New(provider, provider, newFakeObjects(), newFakeRecords(), testLogger(t), nil)

	data := buildDocx(t, "Ada Lovelace. Software Engineer.")
	result, err := p.Scan(context.Background(), "resume.docx", data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Scorecard.OverallScore != 82 {
		t.Errorf("overall score = %d, want 82", result.Scorecard.OverallScore)
	}
	if provider.scoreCalls != 1 {
		t.Errorf("expected 1 score call, got %d", provider.scoreCalls)
	}
	if provider.extractCalls != 0 {
		t.Error("scan should not call profile extraction")
	}
}

func TestRender(t *testing.T) {
	provider := testProvider()
	objects := newFakeObjects()
	records := newFakeRecords()
	p := New(provider, provider, objects, records, testLogger(t), nil)

	profile := types.CandidateProfile{
		PersonalInfo: types.PersonalInfo{FullName: "Ada Lovelace", Title: "Software Engineer"},
		Skills:       []string{"Go"},
		Status:       types.StatusPublished,
	}
	payload, _ := json.Marshal(profile)
	objects.objects["ada-lovelace-software-engineer-abc12.json"] = payload
	records.published["ada-lovelace-software-engineer-abc12"] = types.PortfolioRecord{
		Slug:   "ada-lovelace-software-engineer-abc12",
		Status: types.StatusPublished,
	}

	got, err := p.Render(context.Background(), "ada-lovelace-software-engineer-abc12")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.PersonalInfo.FullName != "Ada Lovelace" {
		t.Errorf("rendered name = %q", got.PersonalInfo.FullName)
	}
}

func TestRenderUnpublishedIsNotFound(t *testing.T) {
	provider := testProvider()
	p := New(provider, provider, newFakeObjects(), newFakeRecords(), testLogger(t), nil)

	_, err := p.Render(context.Background(), "missing-slug")
	if err == nil {
		t.Fatal("expected error for unknown slug")
	}
	var appErr *errors.AppError
	if !goerrors.As(err, &appErr) || appErr.Code != errors.ErrCodeRecordNotFound {
		t.Errorf("expected RECORD_NOT_FOUND, got %v", err)
	}
}

func TestRenderMissingArtifactIsNotFound(t *testing.T) {
	provider := testProvider()
	objects := newFakeObjects()
	records := newFakeRecords()
	records.published["ghost"] = types.PortfolioRecord{Slug: "ghost", Status: types.StatusPublished}
	p := New(provider, provider, objects, records, testLogger(t), nil)

	_, err := p.Render(context.Background(), "ghost")
	if err == nil {
		t.Fatal("expected error when artifact is missing")
	}
	var appErr *errors.AppError
	if !goerrors.As(err, &appErr) || appErr.Code != errors.ErrCodeRecordNotFound {
		t.Errorf("artifact miss should map to RECORD_NOT_FOUND, got %v", err)
	}
}

func TestRenderCorruptArtifactIsNotFound(t *testing.T) {
	provider := testProvider()
	objects := newFakeObjects()
	objects.objects["broken.json"] = []byte("{not json")
	records := newFakeRecords()
	records.published["broken"] = types.PortfolioRecord{Slug: "broken", Status: types.StatusPublished}
	p := New(provider, provider, objects, records, testLogger(t), nil)

	_, err := p.Render(context.Background(), "broken")
	if err == nil {
		t.Fatal("expected error for corrupt artifact")
	}
	var appErr *errors.AppError
	if !goerrors.As(err, &appErr) || appErr.Code != errors.ErrCodeRecordNotFound {
		t.Errorf("corrupt artifact should map to RECORD_NOT_FOUND, got %v", err)
	}
}
