package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"kopichat/db"
	"kopichat/models"
	"kopichat/utils"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

// UserStore is the account directory behind the admin console.
type UserStore interface {
	List(ctx context.Context) ([]models.User, error)
	Create(ctx context.Context, displayName, password, role string) (models.User, error)
	Update(ctx context.Context, id string, displayName, password, role string) (models.User, error)
	Delete(ctx context.Context, id string) error
}

// Users is swapped out in tests.
var Users UserStore = &mongoUsers{}

type mongoUsers struct{}

func (m *mongoUsers) List(ctx context.Context) ([]models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cur, err := db.UserCollection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cur.Close(ctx)

	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

func (m *mongoUsers) Create(ctx context.Context, displayName, password, role string) (models.User, error) {
	if displayName == "" || password == "" {
		return models.User{}, fmt.Errorf("display name and password are required: %w", models.ErrValidation)
	}
	if role != models.RoleUser && role != models.RoleAdmin {
		return models.User{}, fmt.Errorf("unknown role %q: %w", role, models.ErrValidation)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// Display name is the login identifier, so it must be unique.
	err := db.UserCollection.FindOne(ctx, bson.M{"displayName": displayName}).Err()
	if err == nil {
		return models.User{}, fmt.Errorf("display name %q already taken: %w", displayName, models.ErrValidation)
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, fmt.Errorf("check display name: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.NewString(),
		DisplayName:  displayName,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now(),
	}
	if _, err := db.UserCollection.InsertOne(ctx, user); err != nil {
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

func (m *mongoUsers) Update(ctx context.Context, id, displayName, password, role string) (models.User, error) {
	if displayName == "" {
		return models.User{}, fmt.Errorf("display name is required: %w", models.ErrValidation)
	}
	if role != models.RoleUser && role != models.RoleAdmin {
		return models.User{}, fmt.Errorf("unknown role %q: %w", role, models.ErrValidation)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// The name stays unique across everyone but the user being renamed.
	err := db.UserCollection.FindOne(ctx, bson.M{"displayName": displayName, "id": bson.M{"$ne": id}}).Err()
	if err == nil {
		return models.User{}, fmt.Errorf("display name %q already taken: %w", displayName, models.ErrValidation)
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, fmt.Errorf("check display name: %w", err)
	}

	set := bson.M{"displayName": displayName, "role": role}
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return models.User{}, fmt.Errorf("hash password: %w", err)
		}
		set["passwordHash"] = string(hash)
	}

	var updated models.User
	err = db.UserCollection.FindOneAndUpdate(ctx,
		bson.M{"id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, fmt.Errorf("user %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return models.User{}, fmt.Errorf("update user: %w", err)
	}
	return updated, nil
}

func (m *mongoUsers) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := db.UserCollection.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("user %s: %w", id, models.ErrNotFound)
	}
	return nil
}

type userRequest struct {
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
	Role        string `json:"role"`
}

func ListUsers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	users, err := Users.List(r.Context())
	if err != nil {
		utils.RespondWithStoreError(w, err)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	utils.RespondWithJSON(w, http.StatusOK, users)
}

func CreateUser(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if req.Role == "" {
		req.Role = models.RoleUser
	}
	user, err := Users.Create(r.Context(), req.DisplayName, req.Password, req.Role)
	if err != nil {
		utils.RespondWithStoreError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, user)
}

func UpdateUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req userRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if req.Role == "" {
		req.Role = models.RoleUser
	}
	user, err := Users.Update(r.Context(), ps.ByName("userId"), req.DisplayName, req.Password, req.Role)
	if err != nil {
		utils.RespondWithStoreError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, user)
}

// DeleteUser refuses to let admins remove their own account, which would
// strand the console.
func DeleteUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("userId")
	if id == utils.GetUserIDFromRequest(r) {
		utils.RespondWithError(w, http.StatusConflict, "cannot delete your own account")
		return
	}
	if err := Users.Delete(r.Context(), id); err != nil {
		utils.RespondWithStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
