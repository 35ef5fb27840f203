package discord

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Prochy20/roguearmy.xyz-sub000/src/auth"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/config"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/db"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/jobs"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/logging"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/models"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/oops"
	"github.com/Prochy20/roguearmy.xyz-sub000/src/utils"
	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jpillora/backoff"
	"github.com/rs/zerolog"
)

/*
The member sync bot listens on the Discord gateway for guild moderation
events. When someone gets banned from the Discord server, their portal
member flips to banned (and their sessions die) without anyone having to
touch the admin tools. An unban flips them back.

The Visibility Gate reads member status straight from the database, so this
is the only freshness mechanism it needs.
*/
func RunMemberSyncBot(dbConn *pgxpool.Pool) *jobs.Job {
	job := jobs.New("discord member sync")
	log := &job.Logger

	go func() {
		defer job.Finish()
		defer logging.LogPanics(log)

		if config.Config.Discord.BotToken == "" || config.Config.Discord.GuildID == "" {
			log.Info().Msg("No Discord bot configured; not running the member sync bot")
			return
		}

		boff := backoff.Backoff{
			Min: 1 * time.Second,
			Max: 5 * time.Minute,
		}

		for {
			select {
			case <-job.Canceled():
				return
			default:
			}

			bot := newBotInstance(dbConn, log)
			err := bot.Run(job.Ctx)
			if err == nil || errors.Is(err, context.Canceled) {
				return
			}

			log.Error().Err(err).Msg("Discord bot terminated; reconnecting after backoff")
			if utils.SleepContext(job.Ctx, boff.Duration()) != nil {
				return
			}
		}
	}()
	return job
}

type botInstance struct {
	conn   *websocket.Conn
	dbConn *pgxpool.Pool
	log    *zerolog.Logger

	heartbeatIntervalMs int
	lastSequenceNumber  *int

	// The gorilla websocket library does not allow concurrent writes, and
	// heartbeats race with everything else.
	wsWriteMutex sync.Mutex
}

func newBotInstance(dbConn *pgxpool.Pool, log *zerolog.Logger) *botInstance {
	return &botInstance{
		dbConn: dbConn,
		log:    log,
	}
}

// Runs a single gateway session: connect, identify, then process events
// until the connection dies or the context is cancelled. Returning an error
// means the caller should reconnect.
func (bot *botInstance) Run(ctx context.Context) (err error) {
	defer utils.RecoverPanicAsError(&err)

	gatewayUrl, err := GetGatewayUrl(ctx)
	if err != nil {
		return oops.New(err, "failed to get gateway URL")
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, fmt.Sprintf("%s/?v=10&encoding=json", gatewayUrl), nil)
	if err != nil {
		return oops.New(err, "failed to connect to the Discord gateway")
	}
	bot.conn = conn
	defer bot.conn.Close()

	// The gateway always opens with a hello.
	helloMsg, err := bot.receiveGatewayMessage()
	if err != nil {
		return err
	}
	if helloMsg.Opcode != OpcodeHello {
		return oops.New(nil, "expected hello from the gateway but got opcode %d", helloMsg.Opcode)
	}
	var hello HelloData
	if err := json.Unmarshal(helloMsg.Data, &hello); err != nil {
		return oops.New(err, "failed to unmarshal gateway hello")
	}
	bot.heartbeatIntervalMs = hello.HeartbeatIntervalMs

	err = bot.sendGatewayMessage(OpcodeIdentify, Identify{
		Token:   config.Config.Discord.BotToken,
		Intents: IntentGuilds | IntentGuildMembers | IntentGuildModeration,
		Properties: IdentifyProperties{
			OS:      "linux",
			Browser: BotName,
			Device:  BotName,
		},
	})
	if err != nil {
		return err
	}

	bot.log.Info().Msg("Connected to the Discord gateway")

	// Close the connection when the context dies so the read loop bails out.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			bot.conn.Close()
		case <-done:
		}
	}()

	go bot.doHeartbeats(ctx, done)

	for {
		msg, err := bot.receiveGatewayMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}

		switch msg.Opcode {
		case OpcodeDispatch:
			bot.lastSequenceNumber = msg.SequenceNumber
			if err := bot.processEventMsg(ctx, msg); err != nil {
				bot.log.Error().Err(err).Msg("failed to process gateway event")
			}
		case OpcodeHeartbeat:
			if err := bot.sendGatewayMessage(OpcodeHeartbeat, bot.lastSequenceNumber); err != nil {
				return err
			}
		case OpcodeReconnect:
			return oops.New(nil, "gateway asked us to reconnect")
		case OpcodeInvalidSession:
			return oops.New(nil, "gateway invalidated our session")
		case OpcodeHeartbeatACK:
			// nothing to do
		}
	}
}

func (bot *botInstance) doHeartbeats(ctx context.Context, done <-chan struct{}) {
	// Discord wants the first heartbeat after a random fraction of the
	// interval; the exact jitter does not matter.
	interval := time.Duration(bot.heartbeatIntervalMs) * time.Millisecond
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			if err := bot.sendGatewayMessage(OpcodeHeartbeat, bot.lastSequenceNumber); err != nil {
				bot.log.Error().Err(err).Msg("failed to send heartbeat")
				return
			}
		case <-done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (bot *botInstance) receiveGatewayMessage() (*GatewayMessage, error) {
	_, payload, err := bot.conn.ReadMessage()
	if err != nil {
		return nil, oops.New(err, "failed to read from the gateway")
	}

	var msg GatewayMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return nil, oops.New(err, "failed to unmarshal gateway message")
	}

	return &msg, nil
}

func (bot *botInstance) sendGatewayMessage(opcode Opcode, data any) error {
	bot.wsWriteMutex.Lock()
	defer bot.wsWriteMutex.Unlock()

	msg := GatewayMessage{Opcode: opcode}
	payload, err := msg.ToJSON(data)
	if err != nil {
		return err
	}

	if err := bot.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		return oops.New(err, "failed to send gateway message")
	}
	return nil
}

func (bot *botInstance) processEventMsg(ctx context.Context, msg *GatewayMessage) error {
	if msg.EventName == nil {
		return nil
	}

	switch *msg.EventName {
	case "GUILD_BAN_ADD":
		var ev GuildBanEvent
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			return oops.New(err, "failed to unmarshal guild ban event")
		}
		return bot.setMemberStatus(ctx, ev, models.MemberStatusBanned)
	case "GUILD_BAN_REMOVE":
		var ev GuildBanEvent
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			return oops.New(err, "failed to unmarshal guild ban event")
		}
		return bot.setMemberStatus(ctx, ev, models.MemberStatusActive)
	}

	return nil
}

func (bot *botInstance) setMemberStatus(ctx context.Context, ev GuildBanEvent, status models.MemberStatus) error {
	if ev.GuildID != config.Config.Discord.GuildID {
		return nil
	}

	member, err := db.QueryOne[models.Member](ctx, bot.dbConn,
		`SELECT $columns FROM member WHERE discord_id = $1`,
		ev.User.ID,
	)
	if err != nil {
		if errors.Is(err, db.NotFound) {
			// They were never a portal member; nothing to sync.
			return nil
		}
		return oops.New(err, "failed to look up member for ban sync")
	}

	_, err = bot.dbConn.Exec(ctx,
		`UPDATE member SET status = $1 WHERE id = $2`,
		status, member.ID,
	)
	if err != nil {
		return oops.New(err, "failed to update member status")
	}

	if status == models.MemberStatusBanned {
		if err := auth.DeleteSessionsForMember(ctx, bot.dbConn, member.ID); err != nil {
			return err
		}
	}

	bot.log.Info().
		Str("discordUser", ev.User.Username).
		Str("status", string(status)).
		Msg("Synced member status from Discord")
	return nil
}
