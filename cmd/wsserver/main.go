package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/hanghive/hang-bot/internal/automod"
	"github.com/hanghive/hang-bot/internal/bot"
	"github.com/hanghive/hang-bot/internal/channel"
	"github.com/hanghive/hang-bot/internal/history"
	"github.com/hanghive/hang-bot/internal/ledger"
	"github.com/hanghive/hang-bot/internal/messaging"
	"github.com/hanghive/hang-bot/internal/metrics"
	"github.com/hanghive/hang-bot/internal/modlog"
	"github.com/hanghive/hang-bot/internal/mute"
	"github.com/hanghive/hang-bot/internal/protocol"
	"github.com/hanghive/hang-bot/internal/prompt"
	"github.com/hanghive/hang-bot/internal/ratelimit"
	"github.com/hanghive/hang-bot/internal/session"
	"github.com/hanghive/hang-bot/internal/ws"
)

// autoModerator is the issuer recorded on warnings generated by the content
// classifier rather than a human moderator.
const autoModerator = "AutoMod"

func main() {
	config := ws.DefaultServerConfig()

	if addr := os.Getenv("LISTEN_ADDR"); addr != "" {
		config.ListenAddr = addr
	}
	if v := os.Getenv("WORKER_POOL_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.WorkerPoolSize = n
		}
	}
	if v := os.Getenv("MAX_CONNECTIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.MaxConnections = n
		}
	}
	if v := os.Getenv("READ_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.ReadTimeout = d
		}
	}
	if v := os.Getenv("WRITE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.WriteTimeout = d
		}
	}

	// --- NATS ---
	natsConfig := messaging.DefaultNATSConfig()
	natsConfig.Name = "hang-wsserver"
	if natsURL := os.Getenv("NATS_URL"); natsURL != "" {
		natsConfig.URL = natsURL
	}
	natsClient, err := messaging.NewNATSClient(natsConfig)
	if err != nil {
		log.Fatalf("failed to connect to NATS: %v", err)
	}

	// --- Redis ---
	redisAddr := "localhost:6379"
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		redisAddr = v
	}
	serverName, _ := os.Hostname()
	if v := os.Getenv("SERVER_NAME"); v != "" {
		serverName = v
	}
	if serverName == "" {
		serverName = "ws-1"
	}

	sessionStore, err := session.NewStore(redisAddr, serverName)
	if err != nil {
		log.Fatalf("failed to connect to Redis: %v", err)
	}
	redisClient := sessionStore.Client()

	warnings := ledger.New(ledger.NewRedisStore(redisClient))
	mutes := mute.NewStore(redisClient)
	limiter := ratelimit.NewLimiter(redisClient)
	settings := channel.NewRedisSettings(redisClient)
	historyStore := history.NewRedisStore(redisClient, 0)
	buffer := channel.NewMessageBuffer()

	// --- PostgreSQL audit log (optional) ---
	var auditLog *modlog.Store
	postgresDSN := os.Getenv("POSTGRES_DSN")
	if postgresDSN != "" {
		db, err := sql.Open("postgres", postgresDSN)
		if err != nil {
			log.Fatalf("failed to open postgres: %v", err)
		}
		if err := db.Ping(); err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		if err := modlog.Migrate(db); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
		auditLog = modlog.NewStore(db)
	}

	// --- Moderator allowlist ---
	moderators := make(map[string]bool)
	for _, id := range strings.Split(os.Getenv("MODERATOR_IDS"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			moderators[id] = true
		}
	}

	log.Printf("HangHive gateway starting")
	log.Printf("  listen_addr:     %s", config.ListenAddr)
	log.Printf("  worker_pool:     %d", config.WorkerPoolSize)
	log.Printf("  max_connections: %d", config.MaxConnections)
	log.Printf("  read_timeout:    %s", config.ReadTimeout)
	log.Printf("  write_timeout:   %s", config.WriteTimeout)
	log.Printf("  nats_url:        %s", natsConfig.URL)
	log.Printf("  redis_addr:      %s", redisAddr)
	log.Printf("  server_name:     %s", serverName)
	log.Printf("  audit_log:       %v", auditLog != nil)
	log.Printf("  moderators:      %d", len(moderators))

	// Declare server early so closures can capture it.
	var server *ws.Server

	// genSubscribed tracks which sessions already listen on their
	// gen.result subject, so repeated asks don't stack subscriptions.
	var genSubscribed sync.Map

	// subscribeGenResults wires a session to its generation results. Replies
	// are truncated to the delivery limit; ask replies also extend the
	// session's conversation history.
	subscribeGenResults := func(sid string) {
		if _, loaded := genSubscribed.LoadOrStore(sid, true); loaded {
			return
		}
		if err := natsClient.SubscribeGenResult(sid, func(data []byte) {
			var result messaging.GenResult
			if err := json.Unmarshal(data, &result); err != nil {
				log.Printf("[gen-sub] unmarshal error session=%s: %v", sid, err)
				return
			}

			text := bot.TruncateReply(result.Text)
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()

			switch result.Kind {
			case messaging.GenKindAsk:
				resp, _ := protocol.NewServerMessage(protocol.TypeBotReply, protocol.BotReplyMsg{
					RequestID: result.RequestID,
					ChannelID: result.ChannelID,
					Text:      text,
					Intent:    result.Intent,
				})
				if err := server.SendMessage(sid, resp); err != nil {
					log.Printf("[gen-sub] send bot_reply to %s failed: %v", sid, err)
				}
				// Record the exchange for the next prompt window.
				if err := historyStore.Append(ctx, sid, prompt.Turn{Role: prompt.RoleModel, Content: result.Text}); err != nil {
					log.Printf("[gen-sub] history append failed session=%s: %v", sid, err)
				}

			case messaging.GenKindSummarize, messaging.GenKindTopic:
				resp, _ := protocol.NewServerMessage(protocol.TypeSummary, protocol.SummaryMsg{
					RequestID: result.RequestID,
					ChannelID: result.ChannelID,
					Text:      text,
				})
				if err := server.SendMessage(sid, resp); err != nil {
					log.Printf("[gen-sub] send summary to %s failed: %v", sid, err)
				}
			}
		}); err != nil {
			genSubscribed.Delete(sid)
			log.Printf("[gen-sub] subscribe for session=%s FAILED: %v", sid, err)
		}
	}

	// recordModAction persists an applied action to the audit log (when
	// configured) and publishes it for other services.
	recordModAction := func(ctx context.Context, userID string, rec ledger.ModActionRecord, warningCount int) {
		if auditLog != nil {
			if _, err := auditLog.Record(ctx, rec.Action, userID, rec); err != nil {
				log.Printf("[modlog] record failed user=%s action=%s: %v", userID, rec.Action, err)
			}
		}

		event, _ := json.Marshal(messaging.ModActionEvent{
			Action:          string(rec.Action),
			UserID:          userID,
			UserName:        rec.UserName,
			Reason:          rec.Reason,
			Moderator:       rec.Moderator,
			WarningCount:    warningCount,
			DurationMinutes: rec.DurationMinutes,
			Timestamp:       time.Now().Unix(),
		})
		if err := natsClient.PublishModActionApplied(event); err != nil {
			log.Printf("[modlog] publish failed user=%s action=%s: %v", userID, rec.Action, err)
		}

		log.Println(ledger.FormatModLog(rec.Action, rec.Moderator, rec.UserName, rec.Reason))
	}

	sendError := func(conn *ws.Connection, code, message string) {
		resp, _ := protocol.NewServerMessage(protocol.TypeError, protocol.ErrorMsg{
			Code: code, Message: message,
		})
		conn.WriteMessage(resp)
	}

	sendRateLimited := func(conn *ws.Connection, retryAfter int) {
		resp, _ := protocol.NewServerMessage(protocol.TypeRateLimited, protocol.RateLimitedMsg{
			RetryAfter: retryAfter,
		})
		conn.WriteMessage(resp)
	}

	// checkMessage runs the content classifier on an inbound message.
	// Blocked messages are reported to the sender, flagged for moderator
	// consumers, and auto-warned on high severity. Returns true when the
	// message may proceed.
	checkMessage := func(conn *ws.Connection, channelID, text string) bool {
		verdict := automod.Classify(text)
		if verdict.Accepted {
			metrics.MessagesTotal.WithLabelValues("accepted").Inc()
			return true
		}

		metrics.MessagesTotal.WithLabelValues("blocked").Inc()
		metrics.BlockedMessages.WithLabelValues(string(verdict.Severity)).Inc()

		resp, _ := protocol.NewServerMessage(protocol.TypeMessageBlocked, protocol.MessageBlockedMsg{
			Reason:   verdict.Reason,
			Severity: string(verdict.Severity),
		})
		conn.WriteMessage(resp)

		flagged, _ := json.Marshal(messaging.FlaggedEvent{
			SessionID: conn.ID,
			UserID:    conn.UserID,
			UserName:  conn.UserName,
			ChannelID: channelID,
			Reason:    verdict.Reason,
			Severity:  string(verdict.Severity),
			Censored:  automod.Censor(text),
			Timestamp: time.Now().Unix(),
		})
		if err := natsClient.PublishAutomodFlagged(flagged); err != nil {
			log.Printf("[automod] publish flagged failed session=%s: %v", conn.ID, err)
		}

		// High-severity violations earn an automatic warning.
		if verdict.Severity == automod.SeverityHigh {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()

			rec, err := warnings.Warn(ctx, conn.UserID, conn.UserName, verdict.Reason, autoModerator)
			if err != nil {
				log.Printf("[automod] auto-warn failed user=%s: %v", conn.UserID, err)
				return false
			}
			metrics.WarningsIssued.WithLabelValues("automod").Inc()

			warnResp, _ := protocol.NewServerMessage(protocol.TypeWarningIssued, protocol.WarningIssuedMsg{
				UserID:  conn.UserID,
				Count:   rec.Count,
				Message: rec.Message,
			})
			conn.WriteMessage(warnResp)

			recordModAction(ctx, conn.UserID, ledger.ModActionRecord{
				Action:    ledger.ActionWarn,
				UserName:  conn.UserName,
				Reason:    verdict.Reason,
				Moderator: autoModerator,
				Message:   rec.Message,
			}, rec.Count)
		}
		return false
	}

	requireModerator := func(conn *ws.Connection) bool {
		if moderators[conn.UserID] {
			return true
		}
		sendError(conn, "not_authorized", "moderator command requires moderator privileges")
		return false
	}

	// connsForUser returns all live connections belonging to a user.
	connsForUser := func(userID string) []*ws.Connection {
		var found []*ws.Connection
		for _, c := range server.Connections().All() {
			if c.UserID == userID {
				found = append(found, c)
			}
		}
		return found
	}

	dispatcher := ws.NewMessageDispatcher(nil)

	// -----------------------------------------------------------------------
	// chat_message — classify, buffer, and count a channel message
	// -----------------------------------------------------------------------
	dispatcher.Register(protocol.TypeChatMessage, func(conn *ws.Connection, msg interface{}) {
		chatMsg, ok := msg.(protocol.ChatMessageMsg)
		if !ok {
			return
		}
		ctx := context.Background()

		if err := protocol.ValidateText(chatMsg.Text); err != nil {
			sendError(conn, "invalid_message", err.Error())
			return
		}

		allowed, _ := limiter.Allow(ctx, conn.ID, ratelimit.RuleMessage)
		if !allowed {
			sendRateLimited(conn, int(ratelimit.RuleMessage.Window.Seconds()))
			return
		}

		if muted, remaining, reason, _ := mutes.IsMuted(ctx, conn.UserID); muted {
			log.Printf("[mute] dropped message user=%s remaining=%s", conn.UserID, remaining.Round(time.Second))
			sendError(conn, "muted", "you are muted: "+reason)
			return
		}

		if !checkMessage(conn, chatMsg.ChannelID, chatMsg.Text) {
			return
		}

		buffer.Add(chatMsg.ChannelID, channel.Message{
			Author:  conn.UserName,
			Content: chatMsg.Text,
		})
		sessionStore.Touch(ctx, conn.ID)
	})

	// -----------------------------------------------------------------------
	// ask — request an assistant reply
	// -----------------------------------------------------------------------
	dispatcher.Register(protocol.TypeAsk, func(conn *ws.Connection, msg interface{}) {
		askMsg, ok := msg.(protocol.AskMsg)
		if !ok {
			return
		}
		sid := conn.ID
		ctx := context.Background()

		if err := protocol.ValidateText(askMsg.Text); err != nil {
			sendError(conn, "invalid_message", err.Error())
			return
		}

		allowed, _ := limiter.Allow(ctx, sid, ratelimit.RuleAsk)
		if !allowed {
			sendRateLimited(conn, int(ratelimit.RuleAsk.Window.Seconds()))
			return
		}

		if muted, _, reason, _ := mutes.IsMuted(ctx, conn.UserID); muted {
			sendError(conn, "muted", "you are muted: "+reason)
			return
		}

		if !checkMessage(conn, askMsg.ChannelID, askMsg.Text) {
			return
		}

		communityType, err := settings.CommunityType(ctx, askMsg.ChannelID)
		if err != nil {
			log.Printf("[ask] community type lookup failed channel=%s: %v", askMsg.ChannelID, err)
			communityType = channel.DefaultCommunityType
		}
		turns, err := historyStore.Turns(ctx, sid)
		if err != nil {
			log.Printf("[ask] history lookup failed session=%s: %v", sid, err)
		}

		subscribeGenResults(sid)

		req := messaging.GenRequest{
			RequestID:     uuid.New().String(),
			SessionID:     sid,
			ChannelID:     askMsg.ChannelID,
			Kind:          messaging.GenKindAsk,
			Message:       askMsg.Text,
			CommunityType: communityType,
			History:       turns,
		}
		data, _ := json.Marshal(req)
		if err := natsClient.PublishGenRequest(data); err != nil {
			log.Printf("[ask] publish failed session=%s: %v", sid, err)
			sendError(conn, "generation_unavailable", "could not queue the request, try again")
			return
		}

		// The user turn joins history now; the reply follows on gen.result.
		if err := historyStore.Append(ctx, sid, prompt.Turn{Role: prompt.RoleUser, Content: askMsg.Text}); err != nil {
			log.Printf("[ask] history append failed session=%s: %v", sid, err)
		}
		sessionStore.Touch(ctx, sid)
		log.Printf("ask from session=%s channel=%s community=%s", sid, askMsg.ChannelID, communityType)
	})

	// -----------------------------------------------------------------------
	// summarize — request a channel or topic summary
	// -----------------------------------------------------------------------
	dispatcher.Register(protocol.TypeSummarize, func(conn *ws.Connection, msg interface{}) {
		sumMsg, ok := msg.(protocol.SummarizeMsg)
		if !ok {
			return
		}
		sid := conn.ID
		ctx := context.Background()

		allowed, _ := limiter.Allow(ctx, sid, ratelimit.RuleSummarize)
		if !allowed {
			sendRateLimited(conn, int(ratelimit.RuleSummarize.Window.Seconds()))
			return
		}

		recent := buffer.Recent(sumMsg.ChannelID, 0)
		if len(recent) == 0 {
			sendError(conn, "no_messages", "nothing to summarize yet")
			return
		}

		messages := make([]prompt.ChannelMessage, len(recent))
		for i, m := range recent {
			messages[i] = prompt.ChannelMessage{Author: m.Author, Content: m.Content}
		}

		kind := messaging.GenKindSummarize
		if sumMsg.Topic != "" {
			kind = messaging.GenKindTopic
		}

		subscribeGenResults(sid)

		req := messaging.GenRequest{
			RequestID: uuid.New().String(),
			SessionID: sid,
			ChannelID: sumMsg.ChannelID,
			Kind:      kind,
			Topic:     sumMsg.Topic,
			Messages:  messages,
		}
		data, _ := json.Marshal(req)
		if err := natsClient.PublishGenRequest(data); err != nil {
			log.Printf("[summarize] publish failed session=%s: %v", sid, err)
			sendError(conn, "generation_unavailable", "could not queue the request, try again")
			return
		}

		sessionStore.Touch(ctx, sid)
		log.Printf("summarize from session=%s channel=%s topic=%q messages=%d", sid, sumMsg.ChannelID, sumMsg.Topic, len(messages))
	})

	// -----------------------------------------------------------------------
	// set_community — set the channel's community type
	// -----------------------------------------------------------------------
	dispatcher.Register(protocol.TypeSetCommunity, func(conn *ws.Connection, msg interface{}) {
		setMsg, ok := msg.(protocol.SetCommunityMsg)
		if !ok {
			return
		}
		ctx := context.Background()

		if err := settings.SetCommunityType(ctx, setMsg.ChannelID, setMsg.CommunityType); err != nil {
			log.Printf("[set_community] failed channel=%s: %v", setMsg.ChannelID, err)
			sendError(conn, "settings_error", "could not store the community type")
			return
		}

		normalized := channel.NormalizeCommunityType(setMsg.CommunityType)
		resp, _ := protocol.NewServerMessage(protocol.TypeCommunitySet, protocol.CommunitySetMsg{
			ChannelID:     setMsg.ChannelID,
			CommunityType: normalized,
		})
		conn.WriteMessage(resp)
		log.Printf("set_community channel=%s type=%s session=%s", setMsg.ChannelID, normalized, conn.ID)
	})

	// -----------------------------------------------------------------------
	// warn — moderator warning
	// -----------------------------------------------------------------------
	dispatcher.Register(protocol.TypeWarn, func(conn *ws.Connection, msg interface{}) {
		warnMsg, ok := msg.(protocol.WarnMsg)
		if !ok || !requireModerator(conn) {
			return
		}
		ctx := context.Background()

		rec, err := warnings.Warn(ctx, warnMsg.UserID, warnMsg.UserName, warnMsg.Reason, conn.UserName)
		if err != nil {
			log.Printf("[warn] failed user=%s: %v", warnMsg.UserID, err)
			sendError(conn, "warn_failed", "could not record the warning")
			return
		}
		metrics.WarningsIssued.WithLabelValues("moderator").Inc()

		resp, _ := protocol.NewServerMessage(protocol.TypeWarningIssued, protocol.WarningIssuedMsg{
			UserID:  warnMsg.UserID,
			Count:   rec.Count,
			Message: rec.Message,
		})
		conn.WriteMessage(resp)
		for _, target := range connsForUser(warnMsg.UserID) {
			target.WriteMessage(resp)
		}

		recordModAction(ctx, warnMsg.UserID, ledger.ModActionRecord{
			Action:    ledger.ActionWarn,
			UserName:  warnMsg.UserName,
			Reason:    warnMsg.Reason,
			Moderator: conn.UserName,
			Message:   rec.Message,
		}, rec.Count)
	})

	// -----------------------------------------------------------------------
	// warnings — list a user's warning history
	// -----------------------------------------------------------------------
	dispatcher.Register(protocol.TypeWarnings, func(conn *ws.Connection, msg interface{}) {
		listMsg, ok := msg.(protocol.WarningsMsg)
		if !ok || !requireModerator(conn) {
			return
		}
		ctx := context.Background()

		warns, err := warnings.Warnings(ctx, listMsg.UserID)
		if err != nil {
			log.Printf("[warnings] failed user=%s: %v", listMsg.UserID, err)
			sendError(conn, "warnings_failed", "could not load warnings")
			return
		}

		entries := make([]protocol.WarningEntry, len(warns))
		for i, w := range warns {
			entries[i] = protocol.WarningEntry{
				Reason:    w.Reason,
				Moderator: w.Moderator,
				Timestamp: w.Timestamp.Unix(),
			}
		}
		resp, _ := protocol.NewServerMessage(protocol.TypeWarningsList, protocol.WarningsListMsg{
			UserID:   listMsg.UserID,
			Warnings: entries,
		})
		conn.WriteMessage(resp)
	})

	// -----------------------------------------------------------------------
	// clear_warnings — reset a user's warning history
	// -----------------------------------------------------------------------
	dispatcher.Register(protocol.TypeClearWarnings, func(conn *ws.Connection, msg interface{}) {
		clearMsg, ok := msg.(protocol.ClearWarningsMsg)
		if !ok || !requireModerator(conn) {
			return
		}
		ctx := context.Background()

		removed, err := warnings.ClearWarnings(ctx, clearMsg.UserID)
		if err != nil {
			log.Printf("[clear_warnings] failed user=%s: %v", clearMsg.UserID, err)
			sendError(conn, "clear_failed", "could not clear warnings")
			return
		}

		resp, _ := protocol.NewServerMessage(protocol.TypeWarningsCleared, protocol.WarningsClearedMsg{
			UserID:  clearMsg.UserID,
			Removed: removed,
		})
		conn.WriteMessage(resp)
		log.Printf("clear_warnings user=%s removed=%d by=%s", clearMsg.UserID, removed, conn.UserName)
	})

	// -----------------------------------------------------------------------
	// mute — timed mute
	// -----------------------------------------------------------------------
	dispatcher.Register(protocol.TypeMute, func(conn *ws.Connection, msg interface{}) {
		muteMsg, ok := msg.(protocol.MuteMsg)
		if !ok || !requireModerator(conn) {
			return
		}
		if muteMsg.DurationMinutes <= 0 {
			sendError(conn, "invalid_duration", "mute duration must be positive")
			return
		}
		ctx := context.Background()

		rec := ledger.MuteRecord(muteMsg.UserName, muteMsg.DurationMinutes, muteMsg.Reason, conn.UserName)
		if err := mutes.Mute(ctx, muteMsg.UserID, rec.Duration, muteMsg.Reason); err != nil {
			log.Printf("[mute] failed user=%s: %v", muteMsg.UserID, err)
			sendError(conn, "mute_failed", "could not apply the mute")
			return
		}

		resp, _ := protocol.NewServerMessage(protocol.TypeModAction, protocol.ModActionMsg{
			Action:  string(ledger.ActionMute),
			UserID:  muteMsg.UserID,
			Message: rec.Message,
		})
		conn.WriteMessage(resp)
		for _, target := range connsForUser(muteMsg.UserID) {
			target.WriteMessage(resp)
		}

		recordModAction(ctx, muteMsg.UserID, rec, 0)
	})

	// -----------------------------------------------------------------------
	// kick — disconnect a user
	// -----------------------------------------------------------------------
	dispatcher.Register(protocol.TypeKick, func(conn *ws.Connection, msg interface{}) {
		kickMsg, ok := msg.(protocol.KickMsg)
		if !ok || !requireModerator(conn) {
			return
		}
		ctx := context.Background()

		rec := ledger.KickRecord(kickMsg.UserName, kickMsg.Reason, conn.UserName)

		resp, _ := protocol.NewServerMessage(protocol.TypeModAction, protocol.ModActionMsg{
			Action:  string(ledger.ActionKick),
			UserID:  kickMsg.UserID,
			Message: rec.Message,
		})
		conn.WriteMessage(resp)
		for _, target := range connsForUser(kickMsg.UserID) {
			target.WriteMessage(resp)
			server.RemoveConnection(target)
		}

		recordModAction(ctx, kickMsg.UserID, rec, 0)
	})

	// -----------------------------------------------------------------------
	// ban — permanent mute plus disconnect
	// -----------------------------------------------------------------------
	dispatcher.Register(protocol.TypeBan, func(conn *ws.Connection, msg interface{}) {
		banMsg, ok := msg.(protocol.BanMsg)
		if !ok || !requireModerator(conn) {
			return
		}
		ctx := context.Background()

		rec := ledger.BanRecord(banMsg.UserName, banMsg.Reason, conn.UserName)
		// Duration zero stores the mute without expiry.
		if err := mutes.Mute(ctx, banMsg.UserID, 0, banMsg.Reason); err != nil {
			log.Printf("[ban] failed user=%s: %v", banMsg.UserID, err)
			sendError(conn, "ban_failed", "could not apply the ban")
			return
		}

		resp, _ := protocol.NewServerMessage(protocol.TypeModAction, protocol.ModActionMsg{
			Action:  string(ledger.ActionBan),
			UserID:  banMsg.UserID,
			Message: rec.Message,
		})
		conn.WriteMessage(resp)
		for _, target := range connsForUser(banMsg.UserID) {
			target.WriteMessage(resp)
			server.RemoveConnection(target)
		}

		recordModAction(ctx, banMsg.UserID, rec, 0)
	})

	server = ws.NewServer(config, sessionStore, dispatcher.Dispatch)
	dispatcher.SetServer(server)

	// Drop the session's generation subscription and history on disconnect.
	server.SetOnDisconnect(func(connID string) {
		if _, ok := genSubscribed.LoadAndDelete(connID); ok {
			_ = natsClient.UnsubscribeGenResult(connID)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := historyStore.Clear(ctx, connID); err != nil {
			log.Printf("[disconnect] history clear failed session=%s: %v", connID, err)
		}
	})

	// Graceful shutdown.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Printf("received signal %v, initiating graceful shutdown...", sig)
		natsClient.Close()
		if err := server.Shutdown(); err != nil {
			log.Printf("shutdown error: %v", err)
		}
		if err := sessionStore.Close(); err != nil {
			log.Printf("session store close error: %v", err)
		}
		os.Exit(0)
	}()

	if err := server.Start(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
