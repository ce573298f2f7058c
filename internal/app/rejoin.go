package app

import (
	"fmt"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

// RejoinService issues and verifies seat-reclaim tokens. A token is handed
// privately to a user at seat assignment; presenting it on a later join
// attempt lets the user take their seat back from the bot stand-in.
type RejoinService struct {
	secret string
	ttl    time.Duration
}

// RejoinClaims identifies the seat a token is good for.
type RejoinClaims struct {
	MatchID string
	UserID  string
	Seat    int
}

func NewRejoinService(secret string, ttl time.Duration) *RejoinService {
	return &RejoinService{secret: secret, ttl: ttl}
}

// IssueToken signs a rejoin token for the given seat assignment.
func (s *RejoinService) IssueToken(matchID, userID string, seat int) (string, error) {
	if s == nil || s.secret == "" {
		return "", fmt.Errorf("rejoin service is not configured")
	}
	if matchID == "" || userID == "" {
		return "", fmt.Errorf("match id and user id are required")
	}
	if seat < 0 || seat > 3 {
		return "", fmt.Errorf("seat %d out of range", seat)
	}

	claims := jwt.MapClaims{
		"mid":  matchID,
		"sub":  userID,
		"seat": seat,
		"exp":  time.Now().Add(s.ttl).Unix(),
		"iat":  time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

// VerifyToken parses a rejoin token and returns its claims. Expired tokens
// and tokens signed with any other method fail.
func (s *RejoinService) VerifyToken(tokenString string) (RejoinClaims, error) {
	if s == nil || s.secret == "" {
		return RejoinClaims{}, fmt.Errorf("rejoin service is not configured")
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil {
		return RejoinClaims{}, fmt.Errorf("invalid rejoin token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return RejoinClaims{}, fmt.Errorf("invalid rejoin token claims")
	}

	matchID, _ := claims["mid"].(string)
	userID, _ := claims["sub"].(string)
	seatF, ok := claims["seat"].(float64)
	if matchID == "" || userID == "" || !ok {
		return RejoinClaims{}, fmt.Errorf("rejoin token claims incomplete")
	}

	return RejoinClaims{MatchID: matchID, UserID: userID, Seat: int(seatF)}, nil
}
