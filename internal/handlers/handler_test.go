package handlers

import (
	"context"
	"errors"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"model-studio/internal/directive"
	"model-studio/internal/mediagroup"
	"model-studio/internal/session"
	"model-studio/internal/studio"
	"model-studio/internal/telegram"
)

type sentPhoto struct {
	img     studio.Image
	caption string
}

type fakeMessenger struct {
	mu       sync.Mutex
	texts    []string
	photos   []sentPhoto
	files    map[string]studio.Image
	fetchErr error
}

func (f *fakeMessenger) SendTyping(int64) {}

func (f *fakeMessenger) SendText(_ int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, text)
	return nil
}

func (f *fakeMessenger) SendPhoto(_ int64, img studio.Image, caption string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.photos = append(f.photos, sentPhoto{img: img, caption: caption})
	return nil
}

func (f *fakeMessenger) DownloadFile(_ context.Context, fileID string) (studio.Image, error) {
	if f.fetchErr != nil {
		return studio.Image{}, f.fetchErr
	}
	return f.files[fileID], nil
}

func (f *fakeMessenger) lastText() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.texts) == 0 {
		return ""
	}
	return f.texts[len(f.texts)-1]
}

type recordingGenerator struct {
	mu      sync.Mutex
	prompts []string
	images  [][]studio.Image
	err     error
}

func (g *recordingGenerator) GenerateImage(_ context.Context, prompt string, images []studio.Image) (studio.Image, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, prompt)
	g.images = append(g.images, images)
	if g.err != nil {
		return studio.Image{}, g.err
	}
	return studio.Image{Data: []byte("result"), MimeType: "image/png"}, nil
}

type fixture struct {
	h        *Handler
	msg      *fakeMessenger
	gen      *recordingGenerator
	sessions *session.Store
}

func newFixture() fixture {
	msg := &fakeMessenger{files: map[string]studio.Image{
		"front": {Data: []byte("front"), MimeType: "image/jpeg"},
		"back":  {Data: []byte("back"), MimeType: "image/jpeg"},
	}}
	gen := &recordingGenerator{}
	sessions := session.NewStore(session.Options{})
	h := New(Options{
		Messenger: msg,
		Studio:    studio.New(studio.Options{Generator: gen}),
		Sessions:  sessions,
	})
	return fixture{h: h, msg: msg, gen: gen, sessions: sessions}
}

func command(text string) telegram.Update {
	name := text
	for i, r := range text {
		if r == ' ' || r == '\n' {
			name = text[:i]
			break
		}
	}
	return telegram.Update{Message: &tgbotapi.Message{
		Text:     text,
		Chat:     &tgbotapi.Chat{ID: 1},
		From:     &tgbotapi.User{ID: 7, UserName: "asha"},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(name)}},
	}}
}

func photo(fileID, caption string) telegram.Update {
	return telegram.Update{Message: &tgbotapi.Message{
		MessageID: 5,
		Caption:   caption,
		Chat:      &tgbotapi.Chat{ID: 1},
		From:      &tgbotapi.User{ID: 7, UserName: "asha"},
		Photo:     []tgbotapi.PhotoSize{{FileID: "thumb"}, {FileID: fileID}},
	}}
}

func TestHandle_SetShowReset(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	require.NoError(t, f.h.HandleUpdate(ctx, command("/set pose: twirl\nlocation: home\nshoes: red")))
	assert.Contains(t, f.msg.lastText(), "pose: twirl")
	assert.Contains(t, f.msg.lastText(), "Ignored lines:\nshoes: red")
	assert.Equal(t, directive.RawInput{"pose": {"twirl"}, "location": {"home"}}, f.sessions.Selections(7))

	require.NoError(t, f.h.HandleUpdate(ctx, command("/show")))
	assert.Equal(t, "Current selections:\npose: twirl\nlocation: home", f.msg.lastText())

	require.NoError(t, f.h.HandleUpdate(ctx, command("/reset")))
	assert.Empty(t, f.sessions.Selections(7))

	require.NoError(t, f.h.HandleUpdate(ctx, command("/show")))
	assert.Equal(t, "No saved selections. Defaults will be used.", f.msg.lastText())
}

func TestHandle_Prompt(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	require.NoError(t, f.h.HandleUpdate(ctx, command("/set pose: close up")))
	require.NoError(t, f.h.HandleUpdate(ctx, command("/prompt location: garden, blur")))

	prompt := f.msg.lastText()
	assert.Contains(t, prompt, "[POSE_LOCK]")
	assert.Contains(t, prompt, "ZOOM REQUESTED")
	assert.Contains(t, prompt, "Location: garden, blur")
	assert.Empty(t, f.gen.prompts)
	assert.Equal(t, directive.RawInput{"pose": {"close up"}}, f.sessions.Selections(7), "/prompt must not persist overrides")

	require.NoError(t, f.h.HandleUpdate(ctx, command("/prompt mode: model_reference_based")))
	assert.Equal(t, "Secondary reference image is required for MODEL_REFERENCE_BASED mode.", f.msg.lastText())
}

func TestHandle_PhotoUsesCaptionAndSession(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	require.NoError(t, f.h.HandleUpdate(ctx, photo("front", "pose: mirror selfie")))
	require.Len(t, f.msg.photos, 1)
	assert.Equal(t, []byte("result"), f.msg.photos[0].img.Data)
	assert.Contains(t, f.msg.photos[0].caption, "Changed: pose")
	assert.Contains(t, f.gen.prompts[0], "[MIRROR_ADJUSTMENT_LOCK]")

	// A captionless photo reuses the saved pose.
	require.NoError(t, f.h.HandleUpdate(ctx, photo("front", "")))
	require.Len(t, f.gen.prompts, 2)
	assert.Contains(t, f.gen.prompts[1], "[MIRROR_ADJUSTMENT_LOCK]")
}

func TestHandle_PhotoModelReferenceNeedsSecondPhoto(t *testing.T) {
	f := newFixture()

	require.NoError(t, f.h.HandleUpdate(context.Background(), photo("front", "mode: model_reference_based")))
	assert.Equal(t, "Secondary reference image is required for MODEL_REFERENCE_BASED mode.", f.msg.lastText())
	assert.Empty(t, f.gen.prompts)
}

func TestHandle_MediaGroupPrimaryAndSecondary(t *testing.T) {
	f := newFixture()

	f.h.HandleMediaGroup(context.Background(), mediagroup.Group{
		ChatID:  1,
		UserID:  7,
		Caption: "mode: model_reference_based",
		FileIDs: []string{"front", "back", "extra"},
	})

	require.Len(t, f.gen.images, 1)
	images := f.gen.images[0]
	require.Len(t, images, 2)
	assert.Equal(t, []byte("front"), images[0].Data)
	assert.Equal(t, []byte("back"), images[1].Data)
	assert.Contains(t, f.gen.prompts[0], "[MODEL_REFERENCE_LOCK]")
	require.Len(t, f.msg.photos, 1)
	assert.Contains(t, f.msg.photos[0].caption, "Mode: MODEL_REFERENCE_BASED")
}

func TestHandle_AlbumPhotosGoToAggregator(t *testing.T) {
	f := newFixture()
	ag := mediagroup.New(mediagroup.Options{})
	defer ag.Close()
	f.h.SetMediaGroupAggregator(ag)

	u := photo("front", "")
	u.Message.MediaGroupID = "album"
	require.NoError(t, f.h.HandleUpdate(context.Background(), u))

	assert.Equal(t, 1, ag.Pending())
	assert.Empty(t, f.gen.prompts)
}

func TestHandle_Errors(t *testing.T) {
	f := newFixture()
	f.msg.fetchErr = errors.New("telegram down")

	require.NoError(t, f.h.HandleUpdate(context.Background(), photo("front", "")))
	assert.Equal(t, "Could not download the photo. Please send it again.", f.msg.lastText())

	f = newFixture()
	f.gen.err = studio.ErrGenerationFailed
	require.NoError(t, f.h.HandleUpdate(context.Background(), photo("front", "")))
	assert.Equal(t, "No image returned from the generation service.", f.msg.lastText())
}

func TestHandle_IgnoresEmptyUpdates(t *testing.T) {
	f := newFixture()

	require.NoError(t, f.h.HandleUpdate(context.Background(), telegram.Update{}))
	require.NoError(t, f.h.HandleUpdate(context.Background(), command("/unknown")))
	assert.Equal(t, "Unknown command. Use /help.", f.msg.lastText())
}
