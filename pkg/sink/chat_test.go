package sink_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/errorkit/pkg/report"
	"github.com/dmitrymomot/errorkit/pkg/sink"
	"github.com/dmitrymomot/errorkit/pkg/telegram"
)

type sentDocument struct {
	name    string
	caption string
	body    string
}

type fakeChat struct {
	docErrs  []error // consumed per SendDocument call
	msgErr   error
	docs     []sentDocument
	messages []string
	mu       sync.Mutex
}

func (c *fakeChat) SendDocument(_ context.Context, name string, r io.Reader, caption string) error {
	body, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.docs = append(c.docs, sentDocument{name: name, caption: caption, body: string(body)})
	if len(c.docErrs) == 0 {
		return nil
	}
	err, c.docErrs = c.docErrs[0], c.docErrs[1:]
	return err
}

func (c *fakeChat) SendMessage(_ context.Context, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, text)
	return c.msgErr
}

func newChatSink(t *testing.T, client sink.ChatClient) (*sink.ChatSink, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := sink.NewChatSink("telegram", client, dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, dir
}

func requireEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries, "temporary report files must be removed")
}

func chatEvent() *report.Event {
	ev := report.NewEvent(report.Critical, "Database <b>unreachable</b>")
	ev.Time = time.Date(2024, 5, 17, 13, 45, 9, 0, time.UTC)
	return ev
}

func TestChatSink_Success(t *testing.T) {
	t.Parallel()

	client := &fakeChat{}
	s, dir := newChatSink(t, client)

	err := s.Deliver(context.Background(), chatEvent(), sink.Document{HTML: "<p>report</p>"})
	require.NoError(t, err)

	require.Len(t, client.docs, 1)
	doc := client.docs[0]
	assert.Equal(t, "critical_message_2024-05-17_13-45-09.html", doc.name)
	assert.Equal(t, "<p>report</p>", doc.body)
	assert.True(t, strings.HasPrefix(doc.caption, "*Critical* @ "))
	assert.True(t, strings.HasSuffix(doc.caption, ": Database unreachable"))
	assert.Empty(t, client.messages)
	requireEmptyDir(t, dir)
}

func TestChatSink_CaptionIsTruncated(t *testing.T) {
	t.Parallel()

	client := &fakeChat{}
	s, _ := newChatSink(t, client)

	ev := report.NewEvent(report.Error, strings.Repeat("очень длинное сообщение ", 40))
	require.NoError(t, s.Deliver(context.Background(), ev, sink.Document{HTML: "x"}))

	caption := client.docs[0].caption
	assert.LessOrEqual(t, utf8.RuneCountInString(caption), sink.CaptionLimit)
	assert.True(t, utf8.ValidString(caption))
}

func TestChatSink_EncodingErrorRetriesWithPrefix(t *testing.T) {
	t.Parallel()

	client := &fakeChat{docErrs: []error{errors.New("Bad Request: strings must be encoded in UTF-8")}}
	s, dir := newChatSink(t, client)

	require.NoError(t, s.Deliver(context.Background(), chatEvent(), sink.Document{HTML: "<p>report</p>"}))

	require.Len(t, client.docs, 2)
	assert.NotContains(t, client.docs[1].caption, ":")
	assert.True(t, strings.HasPrefix(client.docs[1].caption, "*Critical* @ "))
	assert.Equal(t, "<p>report</p>", client.docs[1].body, "retry must resend the whole file")
	assert.Empty(t, client.messages)
	requireEmptyDir(t, dir)
}

func TestChatSink_AttachmentFailureSendsNotice(t *testing.T) {
	t.Parallel()

	client := &fakeChat{docErrs: []error{errors.New("Request Entity Too Large")}}
	s, dir := newChatSink(t, client)

	err := s.Deliver(context.Background(), chatEvent(), sink.Document{HTML: "<p>report</p>"})
	require.ErrorIs(t, err, sink.ErrAttachmentFailed)

	require.Len(t, client.messages, 1)
	assert.True(t, strings.HasSuffix(client.messages[0],
		": There was an error sending exception report. Review file log."))
	requireEmptyDir(t, dir)
}

func TestChatSink_TotalFailure(t *testing.T) {
	t.Parallel()

	noticeErr := errors.New("network unreachable")
	client := &fakeChat{docErrs: []error{errors.New("timeout")}, msgErr: noticeErr}
	s, dir := newChatSink(t, client)

	err := s.Deliver(context.Background(), chatEvent(), sink.Document{HTML: "<p>report</p>"})
	require.ErrorIs(t, err, sink.ErrAttachmentFailed)
	require.ErrorIs(t, err, noticeErr)
	requireEmptyDir(t, dir)
}

func TestChatSink_NoticeAfterHungUpload(t *testing.T) {
	t.Parallel()

	var (
		mu       sync.Mutex
		uploads  int
		messages []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/sendDocument") {
			mu.Lock()
			uploads++
			mu.Unlock()
			select {
			case <-r.Context().Done():
			case <-time.After(5 * time.Second):
			}
			return
		}
		_ = r.ParseForm()
		mu.Lock()
		messages = append(messages, r.FormValue("text"))
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":42,"type":"private"}}}`)
	}))
	t.Cleanup(srv.Close)

	client, err := telegram.New(telegram.Config{
		Token:    "123:abc",
		ChatID:   "42",
		Endpoint: srv.URL + "/bot%s/%s",
		Timeout:  10 * time.Second,
	})
	require.NoError(t, err)
	s, dir := newChatSink(t, client)

	d := sink.NewDispatcher(report.New(), []sink.Channel{{Sink: s}}, sink.WithTimeout(300*time.Millisecond))
	err = d.Dispatch(context.Background(), chatEvent())
	require.ErrorIs(t, err, sink.ErrAttachmentFailed)
	assert.NotContains(t, err.Error(), "send message")

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, uploads)
	require.Len(t, messages, 1)
	assert.True(t, strings.HasSuffix(messages[0], ": There was an error sending exception report. Review file log."))
	requireEmptyDir(t, dir)
}

func TestChatSink_EncodedDocument(t *testing.T) {
	t.Parallel()

	client := &fakeChat{}
	s, _ := newChatSink(t, client)

	doc := sink.Document{HTML: "<p>Grüße</p>", Charset: "ISO-8859-1"}
	require.NoError(t, s.Deliver(context.Background(), chatEvent(), doc))
	assert.Equal(t, "<p>Gr\xfc\xdfe</p>", client.docs[0].body)
}

func TestNewChatSink_Validation(t *testing.T) {
	t.Parallel()

	_, err := sink.NewChatSink("", &fakeChat{}, "")
	require.ErrorIs(t, err, sink.ErrEmptyName)

	_, err = sink.NewChatSink("telegram", nil, "")
	require.ErrorIs(t, err, sink.ErrNilDependency)
}

func TestAttachmentName(t *testing.T) {
	t.Parallel()

	ev := report.NewEvent(report.Warning, "x")
	ev.Time = time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC)
	assert.Equal(t, "warning_message_2023-01-02_03-04-05.html", sink.AttachmentName(ev))
}
