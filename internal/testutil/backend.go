package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"ojadmin/internal/admin/model"

	"github.com/gin-gonic/gin"
)

const (
	AdminUsername = "admin"
	AdminPassword = "secret"
	AdminToken    = "test-admin-token"

	adminCookie = "adminToken"
)

// Recorded is one request the fake backend served.
type Recorded struct {
	Method        string
	Path          string
	Query         string
	Authorization string
	RequestID     string
	Cookie        string
	Body          []byte
}

// Upload is one multipart upload as received, parts in wire order.
type Upload struct {
	Path      string
	ProblemID string
	PartNames []string
	FileNames []string
	Contents  map[string]string
}

// Backend is an in-memory admin backend served over HTTP by gin. Routes
// live under /api.
type Backend struct {
	mu sync.Mutex

	server *httptest.Server
	token  string

	users       []model.User
	teams       []model.Team
	problems    []model.Problem
	submissions []model.Submission
	events      []model.Event
	nextID      int64

	failures          map[string]int
	tokenExpired      bool
	omitRecords       bool
	loginWithoutToken bool

	requests []Recorded
	uploads  []Upload
}

// NewBackend starts a fake backend that is closed with the test.
func NewBackend(t testing.TB) *Backend {
	t.Helper()
	gin.SetMode(gin.TestMode)
	b := &Backend{
		token:    AdminToken,
		nextID:   100,
		failures: make(map[string]int),
	}
	b.server = httptest.NewServer(b.routes())
	t.Cleanup(b.server.Close)
	return b
}

// URL is the API base, including the /api prefix.
func (b *Backend) URL() string {
	return b.server.URL + "/api"
}

func (b *Backend) Close() {
	b.server.Close()
}

func (b *Backend) routes() *gin.Engine {
	r := gin.New()
	r.Use(b.record)
	api := r.Group("/api")
	api.POST("/admin/login", b.failpoint("login"), b.login)
	api.GET("/problems/:id", b.failpoint("get-problem"), b.getProblem)
	api.GET("/users/events", b.failpoint("list-events"), b.listEvents)

	admin := api.Group("/admin", b.auth)
	admin.POST("/register-admin", b.failpoint("register-admin"), b.registerAdmin)
	admin.GET("/users", b.failpoint("list-users"), b.listUsers)
	admin.DELETE("/users/:id", b.failpoint("delete-user"), b.deleteUser)
	admin.GET("/teams", b.failpoint("list-teams"), b.listTeams)
	admin.DELETE("/teams/:id", b.failpoint("delete-team"), b.deleteTeam)
	admin.GET("/problems", b.failpoint("list-problems"), b.listProblems)
	admin.POST("/problems", b.failpoint("create-problem"), b.createProblem)
	admin.PUT("/problems/:id", b.failpoint("update-problem"), b.updateProblem)
	admin.DELETE("/problems/:id", b.failpoint("delete-problem"), b.deleteProblem)
	admin.POST("/upload-testcases", b.failpoint("upload-testcases"), b.upload)
	admin.POST("/upload-solution", b.failpoint("upload-solution"), b.upload)
	admin.GET("/submissions", b.failpoint("list-submissions"), b.listSubmissions)
	admin.POST("/event/create", b.failpoint("create-event"), b.createEvent)
	admin.POST("/event/start", b.failpoint("start-event"), b.startEvent)
	admin.POST("/event/end", b.failpoint("stop-event"), b.stopEvent)
	return r
}

// Fail makes the named operation answer status until cleared with 0.
func (b *Backend) Fail(op string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if status == 0 {
		delete(b.failures, op)
		return
	}
	b.failures[op] = status
}

// ExpireToken makes every authenticated route answer 401.
func (b *Backend) ExpireToken() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tokenExpired = true
}

// OmitRecords makes create/update problem answer with an empty body.
func (b *Backend) OmitRecords(omit bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.omitRecords = omit
}

// LoginWithoutToken makes login succeed without issuing a token.
func (b *Backend) LoginWithoutToken(v bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.loginWithoutToken = v
}

func (b *Backend) SeedUsers(users ...model.User) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.users = append(b.users, users...)
}

func (b *Backend) SeedTeams(teams ...model.Team) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.teams = append(b.teams, teams...)
}

func (b *Backend) SeedProblems(problems ...model.Problem) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.problems = append(b.problems, problems...)
}

func (b *Backend) SeedSubmissions(subs ...model.Submission) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.submissions = append(b.submissions, subs...)
}

func (b *Backend) SeedEvents(events ...model.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, events...)
}

// AddProblem inserts a problem behind the client's back, as another admin would.
func (b *Backend) AddProblem(p model.Problem) model.Problem {
	b.mu.Lock()
	defer b.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = b.allocID()
	}
	b.problems = append(b.problems, p)
	return p
}

func (b *Backend) Requests() []Recorded {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Recorded(nil), b.requests...)
}

// LastRequest returns the most recent request to path, ignoring the /api prefix.
func (b *Backend) LastRequest(method, path string) (Recorded, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := len(b.requests) - 1; i >= 0; i-- {
		r := b.requests[i]
		if r.Method == method && strings.TrimPrefix(r.Path, "/api") == path {
			return r, true
		}
	}
	return Recorded{}, false
}

func (b *Backend) Uploads() []Upload {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Upload(nil), b.uploads...)
}

func (b *Backend) Events() []model.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.Event(nil), b.events...)
}

func (b *Backend) Problems() []model.Problem {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]model.Problem(nil), b.problems...)
}

func (b *Backend) record(c *gin.Context) {
	var body []byte
	if c.Request.Body != nil && !strings.HasPrefix(c.ContentType(), "multipart/") {
		body, _ = io.ReadAll(c.Request.Body)
		c.Request.Body = io.NopCloser(strings.NewReader(string(body)))
	}
	cookie, _ := c.Cookie(adminCookie)
	b.mu.Lock()
	b.requests = append(b.requests, Recorded{
		Method:        c.Request.Method,
		Path:          c.Request.URL.Path,
		Query:         c.Request.URL.RawQuery,
		Authorization: c.GetHeader("Authorization"),
		RequestID:     c.GetHeader("X-Request-Id"),
		Cookie:        cookie,
		Body:          body,
	})
	b.mu.Unlock()
	c.Next()
}

func (b *Backend) failpoint(op string) gin.HandlerFunc {
	return func(c *gin.Context) {
		b.mu.Lock()
		status, ok := b.failures[op]
		b.mu.Unlock()
		if ok {
			c.AbortWithStatusJSON(status, gin.H{"message": "injected failure: " + op})
			return
		}
		c.Next()
	}
}

func (b *Backend) auth(c *gin.Context) {
	b.mu.Lock()
	expired := b.tokenExpired
	token := b.token
	b.mu.Unlock()
	header := c.GetHeader("Authorization")
	if expired || header != "Bearer "+token {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, token failed"})
		return
	}
	c.Next()
}

func (b *Backend) login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request"})
		return
	}
	if req.Username != AdminUsername || req.Password != AdminPassword {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}
	b.mu.Lock()
	noToken := b.loginWithoutToken
	b.tokenExpired = false
	b.mu.Unlock()
	if noToken {
		c.JSON(http.StatusOK, gin.H{"message": "Login successful"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "token": b.token})
}

func (b *Backend) registerAdmin(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "username and password are required"})
		return
	}
	b.mu.Lock()
	for _, u := range b.users {
		if u.Username == req.Username {
			b.mu.Unlock()
			c.JSON(http.StatusConflict, gin.H{"message": "User already exists"})
			return
		}
	}
	b.users = append(b.users, model.User{ID: b.allocID(), Username: req.Username, Role: "admin"})
	b.mu.Unlock()
	c.JSON(http.StatusCreated, gin.H{"message": "Admin registered"})
}

// listUsers answers in document-store form with _id keys.
func (b *Backend) listUsers(c *gin.Context) {
	b.mu.Lock()
	out := make([]gin.H, 0, len(b.users))
	for _, u := range b.users {
		out = append(out, gin.H{"_id": u.ID.String(), "username": u.Username, "email": u.Email, "role": u.Role})
	}
	b.mu.Unlock()
	c.JSON(http.StatusOK, out)
}

func (b *Backend) deleteUser(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var ok bool
	b.users, ok = removeByID(b.users, model.ID(c.Param("id")))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User removed"})
}

func (b *Backend) listTeams(c *gin.Context) {
	b.mu.Lock()
	teams := append([]model.Team{}, b.teams...)
	b.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"teams": teams})
}

func (b *Backend) deleteTeam(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var ok bool
	b.teams, ok = removeByID(b.teams, model.ID(c.Param("id")))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Team not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Team removed"})
}

func (b *Backend) getProblem(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, p := range b.problems {
		if p.ID == model.ID(c.Param("id")) {
			c.JSON(http.StatusOK, p)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"message": "Problem not found"})
}

func (b *Backend) listProblems(c *gin.Context) {
	b.mu.Lock()
	problems := append([]model.Problem{}, b.problems...)
	b.mu.Unlock()
	c.JSON(http.StatusOK, problems)
}

func (b *Backend) createProblem(c *gin.Context) {
	var p model.Problem
	if err := c.ShouldBindJSON(&p); err != nil || p.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "title is required"})
		return
	}
	b.mu.Lock()
	p.ID = b.allocID()
	b.problems = append(b.problems, p)
	omit := b.omitRecords
	b.mu.Unlock()
	if omit {
		c.Status(http.StatusCreated)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (b *Backend) updateProblem(c *gin.Context) {
	var p model.Problem
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid problem"})
		return
	}
	id := model.ID(c.Param("id"))
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.problems {
		if b.problems[i].ID == id {
			p.ID = id
			b.problems[i] = p
			if b.omitRecords {
				c.Status(http.StatusOK)
				return
			}
			c.JSON(http.StatusOK, p)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"message": "Problem not found"})
}

func (b *Backend) deleteProblem(c *gin.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var ok bool
	b.problems, ok = removeByID(b.problems, model.ID(c.Param("id")))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Problem not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Problem removed"})
}

// upload reads the parts in wire order so tests can check field order.
func (b *Backend) upload(c *gin.Context) {
	reader, err := c.Request.MultipartReader()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "multipart body required"})
		return
	}
	up := Upload{Path: strings.TrimPrefix(c.Request.URL.Path, "/api"), Contents: make(map[string]string)}
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "bad multipart body"})
			return
		}
		data, _ := io.ReadAll(part)
		up.PartNames = append(up.PartNames, part.FormName())
		if part.FileName() != "" {
			up.FileNames = append(up.FileNames, part.FileName())
			up.Contents[part.FileName()] = string(data)
		} else if part.FormName() == "problem_id" {
			up.ProblemID = string(data)
		}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	found := false
	for _, p := range b.problems {
		if p.ID == model.ID(up.ProblemID) {
			found = true
		}
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"message": "Problem not found"})
		return
	}
	if len(up.FileNames) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No files uploaded"})
		return
	}
	b.uploads = append(b.uploads, up)
	c.JSON(http.StatusOK, gin.H{"message": "Files uploaded", "count": len(up.FileNames)})
}

func (b *Backend) listSubmissions(c *gin.Context) {
	result := strings.ToLower(c.Query("result"))
	language := strings.ToLower(c.Query("language"))
	b.mu.Lock()
	out := make([]model.Submission, 0, len(b.submissions))
	for _, s := range b.submissions {
		if result != "" && strings.ToLower(s.Result) != result {
			continue
		}
		if language != "" && strings.ToLower(s.Language) != language {
			continue
		}
		out = append(out, s)
	}
	b.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"submissions": out})
}

func (b *Backend) listEvents(c *gin.Context) {
	b.mu.Lock()
	events := append([]model.Event{}, b.events...)
	b.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"events": events})
}

func (b *Backend) createEvent(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Event name is required"})
		return
	}
	b.mu.Lock()
	ev := model.Event{ID: b.allocID(), Name: req.Name}
	b.events = append(b.events, ev)
	b.mu.Unlock()
	c.JSON(http.StatusCreated, gin.H{"message": "Event created", "event": ev})
}

func (b *Backend) startEvent(c *gin.Context) {
	var req struct {
		EventID         model.ID `json:"eventId"`
		StartTime       string   `json:"start_time"`
		DurationMinutes int      `json:"duration_minutes"`
	}
	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request"})
		return
	}
	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil || req.DurationMinutes <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "start_time and duration_minutes are required"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.eventIndex(req.EventID)
	if i < 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
		return
	}
	if b.events[i].IsActive {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Event is already active"})
		return
	}
	b.events[i].IsActive = true
	b.events[i].StartTime = model.NewTimestamp(start)
	b.events[i].EndTime = model.NewTimestamp(start.Add(time.Duration(req.DurationMinutes) * time.Minute))
	c.JSON(http.StatusOK, gin.H{"message": "Event started", "event": b.events[i]})
}

func (b *Backend) stopEvent(c *gin.Context) {
	var req struct {
		EventID model.ID `json:"eventId"`
	}
	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.eventIndex(req.EventID)
	if i < 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Event not found"})
		return
	}
	if !b.events[i].IsActive {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Event is not active"})
		return
	}
	b.events[i].IsActive = false
	b.events[i].EndTime = model.NewTimestamp(time.Now().UTC())
	c.JSON(http.StatusOK, gin.H{"message": "Event stopped", "event": b.events[i]})
}

func (b *Backend) eventIndex(id model.ID) int {
	for i, ev := range b.events {
		if ev.ID == id {
			return i
		}
	}
	return -1
}

func (b *Backend) allocID() model.ID {
	b.nextID++
	return model.ID(strconv.FormatInt(b.nextID, 10))
}

func removeByID[T model.Identifiable](items []T, id model.ID) ([]T, bool) {
	for i, item := range items {
		if item.Key() == id {
			return append(items[:i:i], items[i+1:]...), true
		}
	}
	return items, false
}
