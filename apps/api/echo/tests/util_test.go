package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	. "github.com/highschool/scheduler/apps/api/echo"
	"github.com/highschool/scheduler/core/course"
	"github.com/highschool/scheduler/core/enrollment"
	"github.com/highschool/scheduler/core/schedule"
	"github.com/highschool/scheduler/core/semester"
	"github.com/highschool/scheduler/core/user"
	"github.com/highschool/scheduler/core/utilization"
	emailsvc "github.com/highschool/scheduler/services/email"
	logsvc "github.com/highschool/scheduler/services/logger"
	inmemdb "github.com/highschool/scheduler/storage/database/inmem"
	testutil "github.com/highschool/scheduler/tests"
)

var (
	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	errPermDenied   = httpErr{Error: "permission denied"}
	errNotFound     = httpErr{Error: "not found"}
)

type env struct {
	db      *inmemdb.DB
	app     Server
	usrRepo user.Repository
	usrSvc  user.Service
}

func setup(t *testing.T) *env {
	t.Helper()
	emailsvc.ClearSentMessages()

	db := inmemdb.NewDB()
	usrRepo := inmemdb.NewUserRepository(db)
	courseRepo := inmemdb.NewCourseRepository(db)
	semRepo := inmemdb.NewSemesterRepository(db)
	schedRepo := inmemdb.NewScheduleRepository(db)
	enrRepo := inmemdb.NewEnrollmentRepository(db)

	mailSvc := emailsvc.NewConsoleServiceMock()
	usrSvc := user.NewServiceMock(usrRepo, mailSvc)
	scheduleSvc := schedule.NewService(schedRepo, courseRepo, semRepo, usrRepo, enrRepo)
	enrollmentSvc := enrollment.NewServiceMock(enrRepo, schedRepo, semRepo, usrRepo, courseRepo, mailSvc)

	app := NewServer(&Options{
		DisableReqLogs: true,
		Logger:         logsvc.NewConsoleLogger(testLogger),
		UserSvc:        usrSvc,
		CourseSvc:      course.NewService(courseRepo),
		SemesterSvc:    semester.NewService(semRepo),
		ScheduleSvc:    scheduleSvc,
		EnrollmentSvc:  enrollmentSvc,
		UtilizationSvc: utilization.NewService(schedRepo, semRepo),
	})
	return &env{db: db, app: app, usrRepo: usrRepo, usrSvc: usrSvc}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// seedSemester adds an active Fall 2024 semester (Sep 2 - Dec 20).
func (e *env) seedSemester() semester.Semester {
	return e.db.AddSemester(semester.Semester{
		Name:        "Fall 2024",
		Year:        2024,
		OrderInYear: 1,
		StartDate:   date(2024, time.September, 2),
		EndDate:     date(2024, time.December, 20),
		IsActive:    true,
	})
}

// seedData holds the catalog fixtures shared by the schedule and student
// endpoint tests.
type seedData struct {
	sem         semester.Semester
	mathTeacher user.User
	artTeacher  user.User
	room        schedule.Classroom
	math101     course.Course
	math201     course.Course
	art101      course.Course
}

// seedCatalog adds the active semester, a small course catalog, two teachers
// and one classroom. Sections are left to each test.
func (e *env) seedCatalog(t *testing.T) *seedData {
	t.Helper()
	sd := &seedData{sem: e.seedSemester()}

	sd.math101 = e.db.AddCourse(course.Course{
		Code: "MATH101", Name: "Algebra I", Credits: 3, HoursPerWeek: 3,
		Specialization: "math", RoomType: "standard", SemesterOrder: 1,
		GradeLevelMin: 9, GradeLevelMax: 12, CourseType: course.TypeCore,
	})
	sd.math201 = e.db.AddCourse(course.Course{
		Code: "MATH201", Name: "Algebra II", Credits: 3, HoursPerWeek: 3,
		PrerequisiteID: sd.math101.ID,
		Specialization: "math", RoomType: "standard", SemesterOrder: 1,
		GradeLevelMin: 10, GradeLevelMax: 12, CourseType: course.TypeCore,
	})
	sd.art101 = e.db.AddCourse(course.Course{
		Code: "ART101", Name: "Studio Art", Credits: 2, HoursPerWeek: 2,
		Specialization: "art", RoomType: "standard", SemesterOrder: 1,
		GradeLevelMin: 9, GradeLevelMax: 12, CourseType: course.TypeElective,
	})

	sd.mathTeacher = testutil.CreateTeacher(t, e.usrRepo, "Morgan Lee", "morganl", "morgan@school.test", "math")
	sd.artTeacher = testutil.CreateTeacher(t, e.usrRepo, "Avery Kim", "averyk", "avery@school.test", "art")
	sd.room = e.db.AddClassroom(schedule.Classroom{Name: "Room 101", Capacity: 10, RoomType: "standard"})
	return sd
}

// addSection seeds a section directly, bypassing the generator.
func (e *env) addSection(c course.Course, sd *seedData, day, start, end string) schedule.Section {
	teacher := sd.mathTeacher
	if c.Specialization == "art" {
		teacher = sd.artTeacher
	}
	return e.db.AddSection(schedule.Section{
		CourseID: c.ID, TeacherID: teacher.ID, ClassroomID: sd.room.ID, SemesterID: sd.sem.ID,
		DayOfWeek: day, StartTime: start, EndTime: end,
		CourseCode: c.Code, CourseName: c.Name, CourseType: c.CourseType,
		TeacherName: teacher.Name, RoomName: sd.room.Name, RoomCapacity: sd.room.Capacity,
	})
}

func (e *env) createAdmin(t *testing.T) user.User {
	t.Helper()
	usr := user.User{
		Name:     "Admin",
		Username: "admin",
		Email:    "admin@school.test",
		Roles:    []string{user.RoleAdmin},
		IsActive: true,
	}
	usr, err := e.usrRepo.CreateUser(usr)
	if err != nil {
		t.Fatalf("createAdmin() failed: %v", err)
	}
	return usr
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	claims := GetUserClaims(usr)
	token, err := GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func checkCode(t *testing.T, wantCode int, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != wantCode {
		t.Errorf("failed! code = %v; wantCode %v; body = %s", rec.Code, wantCode, rec.Body.String())
	}
}
