package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"kopichat/db"
	"kopichat/globals"
	"kopichat/metrics"
	"kopichat/middleware"
	"kopichat/models"
	"kopichat/rdx"
	"kopichat/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 12 * time.Hour

// sessionHash is the Redis hash caching one token per signed-in user.
const sessionHash = "sessions"

type loginRequest struct {
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Login authenticates by display name and issues a 12-hour token. Unknown
// name and wrong password produce the same answer so neither leaks which
// accounts exist.
func Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if req.DisplayName == "" || req.Password == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "display name and password are required")
		return
	}

	user, err := authenticate(r.Context(), req.DisplayName, req.Password)
	if err != nil {
		utils.RespondWithStoreError(w, err)
		return
	}

	tokenString, err := issueToken(user)
	if err != nil {
		log.Error().Err(err).Msg("failed to sign token")
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	if err := rdx.RdxHset(sessionHash, user.ID, tokenString); err != nil {
		log.Warn().Err(err).Msg("session cache write failed")
	}
	metrics.Logins.Inc()

	utils.SendResponse(w, http.StatusOK, loginResponse{Token: tokenString, User: user}, "login successful", nil)
}

func authenticate(ctx context.Context, displayName, password string) (models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var user models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"displayName": displayName}).Decode(&user)
	if err != nil {
		return models.User{}, fmt.Errorf("invalid display name or password: %w", models.ErrInvalidCredentials)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, fmt.Errorf("invalid display name or password: %w", models.ErrInvalidCredentials)
	}
	return user, nil
}

func issueToken(user models.User) (string, error) {
	claims := &middleware.Claims{
		Username: user.DisplayName,
		UserID:   user.ID,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(globals.JwtSecret)
}

// Logout drops the cached session before answering, so a token that was just
// signed out is gone from the cache by the time the client sees the response.
func Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if _, err := rdx.RdxHdel(sessionHash, userID); err != nil {
		log.Warn().Err(err).Str("user", userID).Msg("session cache remove failed")
	}
	utils.SendResponse(w, http.StatusOK, nil, "logged out", nil)
}

// Me answers with the identity snapshot baked into the token. It does not
// refetch the user, so a role change shows up only after the next sign-in.
func Me(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	claims, err := middleware.ValidateJWT(r.Header.Get("Authorization"))
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "invalid token")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"id":          claims.UserID,
		"displayName": claims.Username,
		"role":        claims.Role,
	})
}
