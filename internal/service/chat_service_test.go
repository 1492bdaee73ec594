package service

import (
	"context"
	"strings"
	"testing"

	"baknusai-be/internal/constant"
	"baknusai-be/internal/dto"
	"baknusai-be/internal/entity"
	"baknusai-be/internal/pkg/logger"
	"baknusai-be/internal/repository/contract"
	"baknusai-be/internal/repository/specification"
	"baknusai-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	quotaErr   error
	quotaCalls int
	upserted   *entity.User
	stored     *entity.User
}

func (f *fakeUserRepo) Upsert(_ context.Context, user *entity.User) error {
	f.upserted = user
	return nil
}

func (f *fakeUserRepo) FindOne(context.Context, ...specification.Specification) (*entity.User, error) {
	return f.stored, nil
}

func (f *fakeUserRepo) ConsumeDailyQuota(_ context.Context, _ string, _ int) (*entity.User, error) {
	f.quotaCalls++
	if f.quotaErr != nil {
		return nil, f.quotaErr
	}
	return &entity.User{}, nil
}

type fakeSQLAgent struct {
	query string
	ok    bool
}

func (f *fakeSQLAgent) GenerateQuery(context.Context, []llm.Message) (string, bool) {
	return f.query, f.ok
}

type fakeSandbox struct {
	result    string
	lastQuery string
	calls     int
}

func (f *fakeSandbox) Execute(_ context.Context, query string) string {
	f.calls++
	f.lastQuery = query
	return f.result
}

type fakePKL struct {
	summary      string
	personal     string
	search       string
	searchCalls  int
	searchedWith string
}

func (f *fakePKL) BuildSummaryContext(context.Context) string { return f.summary }

func (f *fakePKL) BuildPersonalContext(context.Context, string) string { return f.personal }

func (f *fakePKL) SearchStudentsByName(_ context.Context, keyword string) string {
	f.searchCalls++
	f.searchedWith = keyword
	return f.search
}

type fakeKaromah struct {
	summary     string
	search      string
	searchCalls int
}

func (f *fakeKaromah) Summary(context.Context) string { return f.summary }

func (f *fakeKaromah) SearchByName(context.Context, string) string {
	f.searchCalls++
	return f.search
}

type fakeOpener struct {
	stream     llm.Stream
	provider   string
	err        error
	lastSystem string
	lastOpts   *llm.Options
	history    []llm.Message
}

func (f *fakeOpener) Open(_ context.Context, system string, history []llm.Message, options ...llm.Option) (llm.Stream, string, error) {
	f.lastSystem = system
	f.history = history
	f.lastOpts = llm.ApplyOptions(llm.Options{}, options...)
	if f.err != nil {
		return nil, "", f.err
	}
	return f.stream, f.provider, nil
}

type noopStream struct{}

func (noopStream) Recv() (string, error) { return "", nil }
func (noopStream) Close() error          { return nil }

func newTestChatService(users *fakeUserRepo, agent *fakeSQLAgent, sandbox *fakeSandbox, pkl *fakePKL, karomah *fakeKaromah, opener *fakeOpener) IChatService {
	return NewChatService(users, agent, sandbox, pkl, karomah, opener, 100, logger.NewNopLogger())
}

func userTurn(content string) dto.ChatTurn {
	return dto.ChatTurn{Role: "user", Content: content}
}

func TestOpenChat_QuotaRefusalShortCircuits(t *testing.T) {
	users := &fakeUserRepo{quotaErr: contract.ErrQuotaExceeded}
	opener := &fakeOpener{stream: noopStream{}, provider: "gemini"}
	svc := newTestChatService(users, &fakeSQLAgent{}, &fakeSandbox{}, &fakePKL{}, &fakeKaromah{}, opener)

	_, _, err := svc.OpenChat(context.Background(), &dto.Identity{Email: "a@b.sch.id"}, []dto.ChatTurn{userTurn("halo")})

	require.ErrorIs(t, err, contract.ErrQuotaExceeded)
	assert.Empty(t, opener.lastSystem, "quota refusal must not open a stream")
}

func TestOpenChat_SystemPromptBlockOrder(t *testing.T) {
	opener := &fakeOpener{stream: noopStream{}, provider: "gemini"}
	pkl := &fakePKL{summary: "PKL-SUMMARY-BLOCK", personal: "PERSONAL-BLOCK", search: "PKL-SEARCH-BLOCK"}
	karomah := &fakeKaromah{summary: "KAROMAH-SUMMARY-BLOCK", search: "KAROMAH-SEARCH-BLOCK"}
	agent := &fakeSQLAgent{query: "SELECT 1", ok: true}
	sandbox := &fakeSandbox{result: "[SISTEM] Terjadi kesalahan dalam query SQL: timeout"}

	svc := newTestChatService(&fakeUserRepo{}, agent, sandbox, pkl, karomah, opener)

	_, provider, err := svc.OpenChat(context.Background(),
		&dto.Identity{Email: "budi@smkbn666.sch.id", Name: "Budi"},
		[]dto.ChatTurn{userTurn("cari siswa nama Siti")},
	)

	require.NoError(t, err)
	assert.Equal(t, "gemini", provider)

	system := opener.lastSystem
	order := []string{
		constant.SystemPrompt[:40],
		"Pengguna yang sedang berbincang",
		"PKL-SUMMARY-BLOCK",
		"KAROMAH-SUMMARY-BLOCK",
		"Terjadi kesalahan dalam query SQL",
		"PKL-SEARCH-BLOCK",
		"KAROMAH-SEARCH-BLOCK",
		"PERSONAL-BLOCK",
	}
	last := -1
	for _, marker := range order {
		idx := strings.Index(system, marker)
		require.GreaterOrEqual(t, idx, 0, "missing block %q", marker)
		assert.Greater(t, idx, last, "block %q out of order", marker)
		last = idx
	}
}

func TestOpenChat_SuccessfulSQLSuppressesNameSearches(t *testing.T) {
	opener := &fakeOpener{stream: noopStream{}, provider: "gemini"}
	pkl := &fakePKL{search: "PKL-SEARCH-BLOCK"}
	karomah := &fakeKaromah{}
	agent := &fakeSQLAgent{query: "SELECT nama FROM user", ok: true}
	sandbox := &fakeSandbox{result: "[SISTEM] Hasil pencarian dari database:\n1. nama: Siti\n"}

	svc := newTestChatService(&fakeUserRepo{}, agent, sandbox, pkl, karomah, opener)

	_, _, err := svc.OpenChat(context.Background(),
		&dto.Identity{Email: "budi@smkbn666.sch.id", Name: "Budi"},
		[]dto.ChatTurn{userTurn("cari siswa nama Siti")},
	)

	require.NoError(t, err)
	assert.Equal(t, 0, pkl.searchCalls, "usable SQL result makes the keyword search redundant")
	assert.Equal(t, 0, karomah.searchCalls)
	assert.Contains(t, opener.lastSystem, "Hasil pencarian dari database")
}

func TestOpenChat_FailedSQLKeepsNameSearches(t *testing.T) {
	opener := &fakeOpener{stream: noopStream{}, provider: "gemini"}
	pkl := &fakePKL{}
	karomah := &fakeKaromah{}
	agent := &fakeSQLAgent{query: "SELECT nama FROM user", ok: true}
	sandbox := &fakeSandbox{result: "[SISTEM] Terjadi kesalahan dalam query SQL: bad column"}

	svc := newTestChatService(&fakeUserRepo{}, agent, sandbox, pkl, karomah, opener)

	_, _, err := svc.OpenChat(context.Background(),
		&dto.Identity{Email: "budi@smkbn666.sch.id", Name: "Budi"},
		[]dto.ChatTurn{userTurn("cari siswa nama Siti")},
	)

	require.NoError(t, err)
	assert.Equal(t, 1, pkl.searchCalls)
	assert.Equal(t, "Siti", pkl.searchedWith)
	assert.Equal(t, 1, karomah.searchCalls)
}

func TestOpenChat_NoSQLIntentSkipsSandbox(t *testing.T) {
	opener := &fakeOpener{stream: noopStream{}, provider: "gemini"}
	sandbox := &fakeSandbox{}
	svc := newTestChatService(&fakeUserRepo{}, &fakeSQLAgent{}, sandbox, &fakePKL{}, &fakeKaromah{}, opener)

	_, _, err := svc.OpenChat(context.Background(),
		&dto.Identity{Email: "budi@smkbn666.sch.id", Name: "Budi"},
		[]dto.ChatTurn{userTurn("halo apa kabar")},
	)

	require.NoError(t, err)
	assert.Equal(t, 0, sandbox.calls)
}

func TestOpenChat_HistoryTrimmedToWindow(t *testing.T) {
	opener := &fakeOpener{stream: noopStream{}, provider: "gemini"}
	svc := newTestChatService(&fakeUserRepo{}, &fakeSQLAgent{}, &fakeSandbox{}, &fakePKL{}, &fakeKaromah{}, opener)

	var turns []dto.ChatTurn
	for i := 0; i < 10; i++ {
		turns = append(turns, userTurn("pesan"), dto.ChatTurn{Role: "assistant", Content: "balasan"})
	}

	_, _, err := svc.OpenChat(context.Background(),
		&dto.Identity{Email: "budi@smkbn666.sch.id", Name: "Budi"},
		turns,
	)

	require.NoError(t, err)
	assert.Len(t, opener.history, historyWindow)
}

func TestOpenChat_LeavesSamplingToOpener(t *testing.T) {
	opener := &fakeOpener{stream: noopStream{}, provider: "groq"}
	svc := newTestChatService(&fakeUserRepo{}, &fakeSQLAgent{}, &fakeSandbox{}, &fakePKL{}, &fakeKaromah{}, opener)

	_, provider, err := svc.OpenChat(context.Background(),
		&dto.Identity{Email: "budi@smkbn666.sch.id", Name: "Budi"},
		[]dto.ChatTurn{userTurn("halo")},
	)

	require.NoError(t, err)
	assert.Equal(t, "groq", provider)
	assert.Zero(t, opener.lastOpts.Temperature, "sampling overrides belong to the fallback wiring")
	assert.Zero(t, opener.lastOpts.MaxTokens)
}

func TestOpenChat_GreetingNamesUserAndTag(t *testing.T) {
	opener := &fakeOpener{stream: noopStream{}, provider: "gemini"}
	svc := newTestChatService(&fakeUserRepo{}, &fakeSQLAgent{}, &fakeSandbox{}, &fakePKL{}, &fakeKaromah{}, opener)

	tag := "guru"
	_, _, err := svc.OpenChat(context.Background(),
		&dto.Identity{Email: "ani@smkbn666.sch.id", Name: "Ani", Tag: &tag},
		[]dto.ChatTurn{userTurn("halo")},
	)

	require.NoError(t, err)
	assert.Contains(t, opener.lastSystem, "Ani (email: ani@smkbn666.sch.id)")
	assert.Contains(t, opener.lastSystem, "tag peran: guru")
}
