package handlers

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"model-studio/internal/directive"
	"model-studio/internal/mediagroup"
	"model-studio/internal/session"
	"model-studio/internal/studio"
	"model-studio/internal/telegram"
)

// Messenger is the Telegram surface the handler needs.
type Messenger interface {
	SendTyping(chatID int64)
	SendText(chatID int64, text string) error
	SendPhoto(chatID int64, img studio.Image, caption string) error
	DownloadFile(ctx context.Context, fileID string) (studio.Image, error)
}

type Studio interface {
	Generate(ctx context.Context, req studio.Request) (studio.Result, error)
	Preview(req studio.Request) (directive.Result, error)
}

type Options struct {
	Messenger Messenger
	Studio    Studio
	Sessions  *session.Store
	Logger    *zap.Logger
}

type Handler struct {
	msg        Messenger
	studio     Studio
	sessions   *session.Store
	logger     *zap.Logger
	aggregator *mediagroup.Aggregator
}

func New(opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	sessions := opts.Sessions
	if sessions == nil {
		sessions = session.NewStore(session.Options{})
	}

	return &Handler{
		msg:      opts.Messenger,
		studio:   opts.Studio,
		sessions: sessions,
		logger:   logger,
	}
}

func (h *Handler) SetMediaGroupAggregator(ag *mediagroup.Aggregator) {
	h.aggregator = ag
}

func (h *Handler) HandleUpdate(ctx context.Context, update telegram.Update) error {
	if update.Message == nil || update.Message.From == nil {
		return nil
	}

	msg := update.Message
	chatID := msg.Chat.ID
	userID := msg.From.ID
	username := msg.From.UserName

	if msg.IsCommand() {
		return h.handleCommand(chatID, userID, username, msg)
	}

	if len(msg.Photo) > 0 {
		return h.handlePhoto(ctx, chatID, userID, username, msg)
	}

	if strings.TrimSpace(msg.Text) != "" {
		return h.msg.SendText(chatID, "Send a saree photo (or an album of two) with selections in the caption. /help shows the keys.")
	}

	return nil
}

func (h *Handler) HandleMediaGroup(ctx context.Context, group mediagroup.Group) {
	if err := h.processPhotos(ctx, group.ChatID, group.UserID, group.Username, group.Caption, group.FileIDs); err != nil {
		h.logger.Error("media group processing failed", zap.Int64("chat_id", group.ChatID), zap.Error(err))
	}
}

func (h *Handler) handleCommand(chatID, userID int64, username string, msg *tgbotapi.Message) error {
	switch msg.Command() {
	case "start", "help":
		return h.msg.SendText(chatID, helpText)
	case "set":
		c := ParseCaption(msg.CommandArguments())
		if c.Empty() {
			return h.msg.SendText(chatID, "Nothing to set. Example:\n/set pose: close up mirror selfie")
		}
		sel := h.sessions.Merge(userID, username, c.Updates)
		return h.msg.SendText(chatID, withUnknown("Saved.\n\n"+describe(sel), c.Unknown))
	case "show":
		return h.msg.SendText(chatID, describe(h.sessions.Selections(userID)))
	case "reset":
		h.sessions.Clear(userID)
		return h.msg.SendText(chatID, "Selections cleared. Defaults will be used.")
	case "prompt":
		sel := h.sessions.Selections(userID)
		c := ParseCaption(msg.CommandArguments())
		for key, values := range c.Updates {
			sel.Set(key, values...)
		}
		res, err := h.studio.Preview(studio.Request{ID: uuid.NewString(), Selections: sel})
		if err != nil {
			return h.msg.SendText(chatID, studio.UserMessage(err))
		}
		return h.msg.SendText(chatID, res.Prompt())
	default:
		return h.msg.SendText(chatID, "Unknown command. Use /help.")
	}
}

func (h *Handler) handlePhoto(ctx context.Context, chatID, userID int64, username string, msg *tgbotapi.Message) error {
	fileID := msg.Photo[len(msg.Photo)-1].FileID

	if msg.MediaGroupID != "" && h.aggregator != nil {
		h.aggregator.Add(mediagroup.Item{
			ChatID:       chatID,
			UserID:       userID,
			Username:     username,
			MediaGroupID: msg.MediaGroupID,
			MessageID:    msg.MessageID,
			Caption:      msg.Caption,
			FileID:       fileID,
		})
		return nil
	}

	return h.processPhotos(ctx, chatID, userID, username, msg.Caption, []string{fileID})
}

// processPhotos treats the first file as the primary reference and the
// second as the secondary; extra album photos are ignored.
func (h *Handler) processPhotos(ctx context.Context, chatID, userID int64, username, caption string, fileIDs []string) error {
	if len(fileIDs) == 0 {
		return nil
	}
	if len(fileIDs) > 2 {
		fileIDs = fileIDs[:2]
	}

	c := ParseCaption(caption)
	sel := h.sessions.Selections(userID)
	if !c.Empty() {
		sel = h.sessions.Merge(userID, username, c.Updates)
	}
	if len(c.Unknown) > 0 {
		_ = h.msg.SendText(chatID, withUnknown("", c.Unknown))
	}

	h.msg.SendTyping(chatID)

	images := make([]studio.Image, len(fileIDs))
	eg, egCtx := errgroup.WithContext(ctx)
	for i, fileID := range fileIDs {
		eg.Go(func() error {
			img, err := h.msg.DownloadFile(egCtx, fileID)
			if err != nil {
				return err
			}
			images[i] = img
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		h.logger.Error("photo download failed", zap.Int64("chat_id", chatID), zap.Error(err))
		return h.msg.SendText(chatID, "Could not download the photo. Please send it again.")
	}

	req := studio.Request{
		ID:         uuid.NewString(),
		Primary:    &images[0],
		Selections: sel,
	}
	if len(images) > 1 {
		req.Secondary = &images[1]
	}

	res, err := h.studio.Generate(ctx, req)
	if err != nil {
		h.logger.Warn("generation failed",
			zap.String("request_id", req.ID),
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
		return h.msg.SendText(chatID, studio.UserMessage(err))
	}

	return h.msg.SendPhoto(chatID, res.Image, resultCaption(res.Directive))
}

func resultCaption(res directive.Result) string {
	changed := "defaults only"
	if names := res.ChangedFieldNames(); len(names) > 0 {
		changed = strings.Join(names, ", ")
	}
	return fmt.Sprintf("Mode: %s\nStrictness: %s\nChanged: %s", res.Mode, res.Strictness, changed)
}

func describe(sel directive.RawInput) string {
	text := FormatSelections(sel)
	if text == "" {
		return "No saved selections. Defaults will be used."
	}
	return "Current selections:\n" + text
}

func withUnknown(text string, unknown []string) string {
	if len(unknown) == 0 {
		return text
	}
	note := "Ignored lines:\n" + strings.Join(unknown, "\n")
	if text == "" {
		return note
	}
	return text + "\n\n" + note
}

const helpText = `Model Studio

Send a saree photo. Add a second photo in the same album to show the back side, or to give a model reference.

Put selections in the caption, one per line:
modelType: South Indian woman
expression: smiling, confident
hair: long braid
pose: close up mirror selfie
location: living room
accessories: temple jewellery
design: change border to gold
details: add tassels to pallu
mode: model_reference_based

Add "Note" to a key for an extra note, e.g. poseNote: look over shoulder.

Commands:
/set key: value - save selections without a photo
/show - show saved selections
/reset - forget saved selections
/prompt - show the directive without generating`
