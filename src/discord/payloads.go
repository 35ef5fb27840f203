package discord

import (
	"encoding/json"

	"github.com/Prochy20/roguearmy.xyz-sub000/src/oops"
)

type Opcode int

const (
	OpcodeDispatch       Opcode = 0
	OpcodeHeartbeat      Opcode = 1
	OpcodeIdentify       Opcode = 2
	OpcodeResume         Opcode = 6
	OpcodeReconnect      Opcode = 7
	OpcodeInvalidSession Opcode = 9
	OpcodeHello          Opcode = 10
	OpcodeHeartbeatACK   Opcode = 11
)

type Intent int

const (
	IntentGuilds          Intent = 1 << 0
	IntentGuildMembers    Intent = 1 << 1
	IntentGuildModeration Intent = 1 << 2
)

type GatewayMessage struct {
	Opcode         Opcode          `json:"op"`
	SequenceNumber *int            `json:"s"`
	EventName      *string         `json:"t"`
	Data           json.RawMessage `json:"d"`
}

func (m *GatewayMessage) ToJSON(data any) ([]byte, error) {
	payload := struct {
		Opcode Opcode `json:"op"`
		Data   any    `json:"d"`
	}{
		Opcode: m.Opcode,
		Data:   data,
	}
	bytes, err := json.Marshal(payload)
	if err != nil {
		return nil, oops.New(err, "failed to marshal gateway message")
	}
	return bytes, nil
}

type HelloData struct {
	HeartbeatIntervalMs int `json:"heartbeat_interval"`
}

type Identify struct {
	Token      string             `json:"token"`
	Intents    Intent             `json:"intents"`
	Properties IdentifyProperties `json:"properties"`
}

type IdentifyProperties struct {
	OS      string `json:"os"`
	Browser string `json:"browser"`
	Device  string `json:"device"`
}

type User struct {
	ID            string  `json:"id"`
	Username      string  `json:"username"`
	Discriminator string  `json:"discriminator"`
	GlobalName    *string `json:"global_name"`
	Avatar        *string `json:"avatar"`
	Locale        *string `json:"locale"`
}

// The name a user actually goes by on the server.
func (u *User) DisplayName() string {
	if u.GlobalName != nil && *u.GlobalName != "" {
		return *u.GlobalName
	}
	return u.Username
}

type GuildMember struct {
	User   *User    `json:"user"`
	Nick   *string  `json:"nick"`
	Avatar *string  `json:"avatar"`
	Roles  []string `json:"roles"`
}

// Payload of both GUILD_BAN_ADD and GUILD_BAN_REMOVE dispatch events.
type GuildBanEvent struct {
	GuildID string `json:"guild_id"`
	User    User   `json:"user"`
}

type OAuthTokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	Scope        string `json:"scope"`
}
