package auth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/campushub/campus-api/model"
	"github.com/campushub/campus-api/services/identity"
	"github.com/campushub/campus-api/utils/middleware"
)

const testUserID = "5f8b7c2e-1a3d-4e6f-9b8a-7c6d5e4f3a2b"

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&model.University{}, &model.College{}, &model.Course{}, &model.Batch{},
		&model.User{}, &model.StudentProfile{}, &model.TeacherProfile{},
		&model.Subject{}, &model.TeacherSubject{},
	))
	return db
}

// stubIdentity serves the provider's user endpoint, answering any request that
// carries the expected bearer token with the fixed principal
func stubIdentity(t *testing.T, principal identity.Principal) *identity.Client {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/user" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(principal))
	}))
	t.Cleanup(srv.Close)

	return identity.NewClient(identity.Config{BaseURL: srv.URL, ServiceKey: "test-key"})
}

func signedToken(t *testing.T, sub string) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func setupTestApp(t *testing.T, db *gorm.DB, identityClient *identity.Client) *fiber.App {
	t.Helper()

	handler := NewAuthHandler(db)
	authMiddleware := middleware.NewAuthMiddleware(identityClient)

	app := fiber.New()
	group := app.Group("/api/auth", authMiddleware.Required())
	group.Post("/create-user", handler.CreateUser)
	group.Get("/profile", handler.GetProfile)

	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	return resp.StatusCode, decoded
}

func TestCreateUserIdempotent(t *testing.T) {
	db := setupTestDB(t)
	client := stubIdentity(t, identity.Principal{ID: testUserID, Email: "a@example.com"})
	app := setupTestApp(t, db, client)
	token := signedToken(t, testUserID)

	status, body := doJSON(t, app, "POST", "/api/auth/create-user", token, fiber.Map{
		"id":    testUserID,
		"email": "a@example.com",
		"name":  "Asha",
		"role":  "TEACHER",
	})
	require.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "User created successfully", body["message"])

	// Replaying the same bootstrap returns the original row untouched
	status, body = doJSON(t, app, "POST", "/api/auth/create-user", token, fiber.Map{
		"id":    testUserID,
		"email": "changed@example.com",
		"name":  "Changed",
		"role":  "STUDENT",
	})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "User already exists", body["message"])

	var user model.User
	require.NoError(t, db.Where("id = ?", testUserID).First(&user).Error)
	assert.Equal(t, "a@example.com", user.Email)
	assert.Equal(t, model.RoleTeacher, user.Role)

	var count int64
	require.NoError(t, db.Model(&model.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCreateUserDefaultsToStudent(t *testing.T) {
	db := setupTestDB(t)
	client := stubIdentity(t, identity.Principal{ID: testUserID})
	app := setupTestApp(t, db, client)

	status, _ := doJSON(t, app, "POST", "/api/auth/create-user", signedToken(t, testUserID), fiber.Map{
		"id":    testUserID,
		"email": "a@example.com",
	})
	require.Equal(t, fiber.StatusCreated, status)

	var user model.User
	require.NoError(t, db.Where("id = ?", testUserID).First(&user).Error)
	assert.Equal(t, model.RoleStudent, user.Role)
}

func TestCreateUserRejectsBadID(t *testing.T) {
	db := setupTestDB(t)
	client := stubIdentity(t, identity.Principal{ID: testUserID})
	app := setupTestApp(t, db, client)

	status, _ := doJSON(t, app, "POST", "/api/auth/create-user", signedToken(t, testUserID), fiber.Map{
		"id":    "not-a-uuid",
		"email": "a@example.com",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = doJSON(t, app, "POST", "/api/auth/create-user", signedToken(t, testUserID), fiber.Map{
		"id":    testUserID,
		"email": "a@example.com",
		"role":  "ADMIN",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestCreateUserRequiresToken(t *testing.T) {
	db := setupTestDB(t)
	client := stubIdentity(t, identity.Principal{ID: testUserID})
	app := setupTestApp(t, db, client)

	status, _ := doJSON(t, app, "POST", "/api/auth/create-user", "", fiber.Map{
		"id":    testUserID,
		"email": "a@example.com",
	})
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestGetProfileStudent(t *testing.T) {
	db := setupTestDB(t)
	client := stubIdentity(t, identity.Principal{ID: testUserID, Email: "a@example.com"})
	app := setupTestApp(t, db, client)

	uni := model.University{Name: "Alpha U", Code: "ALU", IsActive: true}
	require.NoError(t, db.Create(&uni).Error)
	college := model.College{UniversityID: uni.ID, Name: "Engineering College", Address: "1 Main St"}
	require.NoError(t, db.Create(&college).Error)
	course := model.Course{CollegeID: college.ID, Name: "MCA", Code: "MCA"}
	require.NoError(t, db.Create(&course).Error)
	batch := model.Batch{
		CourseID:  course.ID,
		Name:      "MCA 2024",
		StartYear: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndYear:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(&batch).Error)

	require.NoError(t, db.Create(&model.User{
		ID: testUserID, Email: "a@example.com", Name: "Asha", Role: model.RoleStudent,
	}).Error)
	require.NoError(t, db.Create(&model.StudentProfile{
		UserID: testUserID, BatchID: &batch.ID, CollegeID: &college.ID,
	}).Error)

	status, body := doJSON(t, app, "GET", "/api/auth/profile", signedToken(t, testUserID), nil)
	require.Equal(t, fiber.StatusOK, status)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, testUserID, data["id"])
	assert.Equal(t, "STUDENT", data["role"])

	student, ok := data["student"].(map[string]interface{})
	require.True(t, ok)
	batchData, ok := student["batch"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "MCA 2024", batchData["name"])
	courseData, ok := batchData["course"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "MCA", courseData["name"])

	_, hasTeacher := data["teacher"]
	assert.False(t, hasTeacher)
}

func TestGetProfileTeacher(t *testing.T) {
	db := setupTestDB(t)
	client := stubIdentity(t, identity.Principal{ID: testUserID, Email: "t@example.com"})
	app := setupTestApp(t, db, client)

	uni := model.University{Name: "Alpha U", Code: "ALU", IsActive: true}
	require.NoError(t, db.Create(&uni).Error)
	college := model.College{UniversityID: uni.ID, Name: "Engineering College", Address: "1 Main St"}
	require.NoError(t, db.Create(&college).Error)
	subject := model.Subject{Name: "Operating Systems", Code: "OS"}
	require.NoError(t, db.Create(&subject).Error)

	require.NoError(t, db.Create(&model.User{
		ID: testUserID, Email: "t@example.com", Name: "Tariq", Role: model.RoleTeacher,
	}).Error)
	teacherProfile := model.TeacherProfile{UserID: testUserID, CollegeID: &college.ID}
	require.NoError(t, db.Create(&teacherProfile).Error)
	require.NoError(t, db.Create(&model.TeacherSubject{
		TeacherProfileID: teacherProfile.ID, SubjectID: subject.ID,
	}).Error)

	status, body := doJSON(t, app, "GET", "/api/auth/profile", signedToken(t, testUserID), nil)
	require.Equal(t, fiber.StatusOK, status)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, "TEACHER", data["role"])

	teacher, ok := data["teacher"].(map[string]interface{})
	require.True(t, ok)
	collegeData, ok := teacher["college"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Engineering College", collegeData["name"])

	links, ok := teacher["subjectLinks"].([]interface{})
	require.True(t, ok)
	require.Len(t, links, 1)
	subjectData, ok := links[0].(map[string]interface{})["subject"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Operating Systems", subjectData["name"])

	_, hasStudent := data["student"]
	assert.False(t, hasStudent)
}

func TestGetProfileWithoutRow(t *testing.T) {
	db := setupTestDB(t)
	client := stubIdentity(t, identity.Principal{ID: testUserID})
	app := setupTestApp(t, db, client)

	status, _ := doJSON(t, app, "GET", "/api/auth/profile", signedToken(t, testUserID), nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestGetProfileRejectsMalformedHeader(t *testing.T) {
	db := setupTestDB(t)
	client := stubIdentity(t, identity.Principal{ID: testUserID})
	app := setupTestApp(t, db, client)

	req := httptest.NewRequest("GET", "/api/auth/profile", nil)
	req.Header.Set("Authorization", fmt.Sprintf("Token %s", signedToken(t, testUserID)))

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
