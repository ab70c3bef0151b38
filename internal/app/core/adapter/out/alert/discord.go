package alert

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"

	"github.com/JoeShih716/go-bank-ledger/internal/app/core/usecase"
)

// discordLimit Discord 單則訊息的字元上限
const discordLimit = 2000

// messageSender discordgo.Session 中用到的方法
type messageSender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DiscordSink 把補償項目發送到 Discord 頻道
type DiscordSink struct {
	session   messageSender
	channelID string
}

// NewDiscordSink 以 bot token 建立 Discord session，只使用 REST API，不需要開啟 gateway
func NewDiscordSink(token, channelID string) (*DiscordSink, error) {
	if token == "" || channelID == "" {
		return nil, fmt.Errorf("discord: token and channel id are required")
	}
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}
	return &DiscordSink{session: session, channelID: channelID}, nil
}

func (s *DiscordSink) Alert(ctx context.Context, item usecase.ReconcileItem) error {
	_, err := s.session.ChannelMessageSend(s.channelID, formatItem(item), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("discord: send alert: %w", err)
	}
	return nil
}

func formatItem(item usecase.ReconcileItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, ":warning: **ledger reconciliation required** (`%s`)\n", item.Kind)
	fmt.Fprintf(&b, "```\nitem:   %s\n", item.ID)
	fmt.Fprintf(&b, "source: %d\ntarget: %d\namount: %s\n", item.Entry.SourceAccountID, item.Entry.TargetAccountID, item.Entry.Amount)
	fmt.Fprintf(&b, "ref_id: %s\nat:     %s\n", item.Entry.RefID, item.Entry.CreatedAt.UTC().Format(time.RFC3339Nano))
	if item.Cause != "" {
		fmt.Fprintf(&b, "cause:  %s\n", item.Cause)
	}
	b.WriteString("```")
	return truncate(b.String(), discordLimit)
}

// truncate 依 rune 截斷，保留結尾的 code block
func truncate(msg string, limit int) string {
	const tail = "…```"
	runes := []rune(msg)
	if len(runes) <= limit {
		return msg
	}
	return string(runes[:limit-utf8.RuneCountInString(tail)]) + tail
}

var _ usecase.AlertSink = (*DiscordSink)(nil)
