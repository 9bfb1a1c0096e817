package app

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

const (
	VoiceTokenActionLogin = "login"
	VoiceTokenActionJoin  = "join"

	defaultVoiceTokenTTL = time.Hour
)

// VoiceService signs short-lived Vivox access tokens. Login tokens let a
// player connect to voice; join tokens admit them to the channel of one game
// room, so a token minted for one room cannot open another room's channel.
type VoiceService struct {
	secret []byte
	issuer string
	domain string
	ttl    time.Duration

	// Overridable for deterministic tests.
	now    func() time.Time
	serial func() string
}

func NewVoiceService(secret, issuer, domain string) *VoiceService {
	return &VoiceService{
		secret: []byte(secret),
		issuer: issuer,
		domain: domain,
		ttl:    defaultVoiceTokenTTL,
		now:    time.Now,
		serial: randomSerial,
	}
}

// GenerateToken signs a token for the given action. Join tokens target the
// room's voice channel; login tokens target the player themselves.
func (s *VoiceService) GenerateToken(user, action, roomID string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("voice service is nil")
	}
	if user == "" {
		return "", fmt.Errorf("user is required")
	}
	if len(s.secret) == 0 || s.issuer == "" || s.domain == "" {
		return "", fmt.Errorf("voice config is incomplete")
	}

	from := s.participantURI(user)
	to, err := s.resolveTarget(action, roomID, from)
	if err != nil {
		return "", err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, s.claims(user, action, from, to))
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign voice token: %w", err)
	}
	return signed, nil
}

// claims assembles the Vivox claim set. The claim names and SIP URI shapes
// are fixed by the Vivox token protocol.
func (s *VoiceService) claims(user, action, from, to string) jwt.MapClaims {
	return jwt.MapClaims{
		"iss": s.issuer,
		"sub": user,
		"exp": s.now().Add(s.ttl).Unix(),
		"vxa": action,
		"vxi": s.serial(),
		"f":   from,
		"t":   to,
	}
}

func (s *VoiceService) resolveTarget(action, roomID, participant string) (string, error) {
	switch action {
	case VoiceTokenActionLogin:
		return participant, nil
	case VoiceTokenActionJoin:
		if roomID == "" {
			return "", fmt.Errorf("room id is required for join tokens")
		}
		return s.roomChannelURI(roomID), nil
	default:
		return "", fmt.Errorf("unsupported voice action: %q", action)
	}
}

func (s *VoiceService) participantURI(user string) string {
	return fmt.Sprintf("sip:.%s.%s.@%s", s.issuer, user, s.domain)
}

func (s *VoiceService) roomChannelURI(roomID string) string {
	return fmt.Sprintf("sip:confctl-g-%s@%s", roomID, s.domain)
}

func randomSerial() string {
	return fmt.Sprintf("%d-%d", time.Now().UnixNano(), rand.Int63())
}
