package tests

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/highschool/scheduler/core/enrollment"
	"github.com/highschool/scheduler/core/schedule"
	testutil "github.com/highschool/scheduler/tests"
)

// studentFixture seeds the catalog plus a grade-10 student who passed
// Algebra I and two open sections: Algebra II MON 09:00 and Studio Art
// MON 10:00.
type studentFixture struct {
	e          *env
	sd         *seedData
	studentID  string
	token      string
	secMath201 schedule.Section
	secArt     schedule.Section
}

func newStudentFixture(t *testing.T) *studentFixture {
	t.Helper()
	e := setup(t)
	sd := e.seedCatalog(t)

	f := &studentFixture{e: e, sd: sd}
	f.secMath201 = e.addSection(sd.math201, sd, "MONDAY", "09:00", "10:00")
	f.secArt = e.addSection(sd.art101, sd, "MONDAY", "10:00", "11:00")

	student := testutil.CreateStudent(t, e.usrRepo, "Jamie Park", "jamiep", "jamie@school.test", 10)
	e.db.AddHistory(enrollment.CourseHistory{
		StudentID: student.ID, CourseID: sd.math101.ID, SemesterID: sd.sem.ID,
		Status: enrollment.StatusPassed, SemesterName: "Fall 2023",
		SemesterStart: date(2023, time.September, 4),
		CourseName:    sd.math101.Name, CourseType: sd.math101.CourseType, Credits: sd.math101.Credits,
	})
	f.studentID = student.ID
	f.token = getToken(t, student)
	return f
}

func (f *studentFixture) path(suffix string) string {
	return "/api/students/" + f.studentID + suffix
}

func Test_studentApi_recordGuard(t *testing.T) {
	f := newStudentFixture(t)

	other := testutil.CreateStudent(t, f.e.usrRepo, "Riley Cho", "rileyc", "riley@school.test", 10)
	admin := f.e.createAdmin(t)

	tests := []httpTest{
		{
			name: "anonymous is rejected", path: f.path("/progress"),
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "student reads their own record", path: f.path("/progress"),
			token: f.token, wantCode: http.StatusOK,
		},
		{
			name: "someone else's record is hidden", path: "/api/students/" + other.ID + "/progress",
			token: f.token, wantCode: http.StatusNotFound,
		},
		{
			name: "teachers have no student portal", path: f.path("/progress"),
			token: getToken(t, f.sd.mathTeacher), wantCode: http.StatusNotFound,
		},
		{
			name: "admin reads any student", path: f.path("/progress"),
			token: getToken(t, admin), wantCode: http.StatusOK,
		},
		{
			name: "a teacher is not a student record", path: "/api/students/" + f.sd.mathTeacher.ID + "/progress",
			token: getToken(t, admin), wantCode: http.StatusNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			f.e.app.ServeHTTP(rec, req)
			checkCode(t, tt.wantCode, rec)
		})
	}
}

func Test_studentApi_eligibleSections(t *testing.T) {
	f := newStudentFixture(t)

	req, rec := newAuthRequest(http.MethodGet, f.path("/eligible-sections"), f.token)
	f.e.app.ServeHTTP(rec, req)
	checkCode(t, http.StatusOK, rec)

	var eligible []enrollment.EligibleSection
	if err := json.Unmarshal(rec.Body.Bytes(), &eligible); err != nil {
		t.Fatalf("unmarshalling eligible sections failed: %v", err)
	}
	if len(eligible) != 2 {
		t.Fatalf("len(eligible) = %d; want 2", len(eligible))
	}
	// core courses come first
	if eligible[0].CourseID != f.sd.math201.ID || eligible[1].CourseID != f.sd.art101.ID {
		t.Errorf("eligible = [%s %s]; want [Algebra II, Studio Art]",
			eligible[0].CourseName, eligible[1].CourseName)
	}
}

func Test_studentApi_enroll(t *testing.T) {
	f := newStudentFixture(t)

	enrollBody := func(sectionID int64, date string) []byte {
		return []byte(fmt.Sprintf(`{"section_id": %d, "date": %q}`, sectionID, date))
	}

	t.Run("bad date is rejected", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, f.path("/enroll"), f.token,
			enrollBody(f.secMath201.ID, "next monday"))
		f.e.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusBadRequest, rec)
	})

	t.Run("enrolls into Algebra II", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, f.path("/enroll"), f.token,
			enrollBody(f.secMath201.ID, "2024-09-02"))
		f.e.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusCreated, rec)

		var res enrollment.PipelineResult
		if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
			t.Fatalf("unmarshalling result failed: %v", err)
		}
		if res.State != enrollment.StateDone {
			t.Errorf("State = %v; want %v (errors: %v)", res.State, enrollment.StateDone, res.Errors)
		}
		if res.Enrollment == nil || res.Enrollment.ID == 0 {
			t.Error("expected a persisted enrollment")
		}
	})

	t.Run("double enrollment is a conflict", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, f.path("/enroll"), f.token,
			enrollBody(f.secMath201.ID, "2024-09-02"))
		f.e.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusConflict, rec)

		var res enrollment.PipelineResult
		if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
			t.Fatalf("unmarshalling result failed: %v", err)
		}
		if !res.State.Failed() {
			t.Errorf("State = %v; want a terminal failure", res.State)
		}
	})

	t.Run("current lists the enrollment", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, f.path("/enrollments/current"), f.token)
		f.e.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusOK, rec)

		var current []enrollment.CurrentEnrollment
		if err := json.Unmarshal(rec.Body.Bytes(), &current); err != nil {
			t.Fatalf("unmarshalling current enrollments failed: %v", err)
		}
		if len(current) != 1 || current[0].CourseName != "Algebra II" {
			t.Errorf("current = %+v; want one Algebra II enrollment", current)
		}
	})
}

func Test_studentApi_validations(t *testing.T) {
	f := newStudentFixture(t)

	t.Run("conflict check passes on a free slot", func(t *testing.T) {
		body := []byte(fmt.Sprintf(`{"section_id": %d, "date": "2024-09-02"}`, f.secMath201.ID))
		req, rec := newAuthRequest(http.MethodPost, f.path("/validate-conflict"), f.token, body)
		f.e.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusOK, rec)

		var res enrollment.ValidationResult
		if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
			t.Fatalf("unmarshalling result failed: %v", err)
		}
		if !res.OK {
			t.Errorf("OK = false; errors = %v", res.Errors)
		}
	})

	t.Run("prerequisite satisfied", func(t *testing.T) {
		body := []byte(fmt.Sprintf(`{"course_id": %d}`, f.sd.math201.ID))
		req, rec := newAuthRequest(http.MethodPost, f.path("/validate-prereq"), f.token, body)
		f.e.app.ServeHTTP(rec, req)
		checkCode(t, http.StatusOK, rec)

		var res enrollment.ValidationResult
		if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
			t.Fatalf("unmarshalling result failed: %v", err)
		}
		if !res.OK {
			t.Errorf("OK = false; errors = %v", res.Errors)
		}
	})
}

func Test_studentApi_progress(t *testing.T) {
	f := newStudentFixture(t)

	req, rec := newAuthRequest(http.MethodGet, f.path("/progress"), f.token)
	f.e.app.ServeHTTP(rec, req)
	checkCode(t, http.StatusOK, rec)

	var prog enrollment.Progress
	if err := json.Unmarshal(rec.Body.Bytes(), &prog); err != nil {
		t.Fatalf("unmarshalling progress failed: %v", err)
	}
	if prog.CreditsEarned != 3 {
		t.Errorf("CreditsEarned = %v; want 3", prog.CreditsEarned)
	}
	if prog.CreditsRemaining != 27 {
		t.Errorf("CreditsRemaining = %v; want 27", prog.CreditsRemaining)
	}
	if prog.CompletionPercentage != 10 {
		t.Errorf("CompletionPercentage = %v; want 10", prog.CompletionPercentage)
	}
}

func Test_studentApi_history(t *testing.T) {
	f := newStudentFixture(t)

	req, rec := newAuthRequest(http.MethodGet, f.path("/history"), f.token)
	f.e.app.ServeHTTP(rec, req)
	checkCode(t, http.StatusOK, rec)

	var history []enrollment.CourseHistory
	if err := json.Unmarshal(rec.Body.Bytes(), &history); err != nil {
		t.Fatalf("unmarshalling history failed: %v", err)
	}
	if len(history) != 1 || history[0].CourseName != "Algebra I" {
		t.Errorf("history = %+v; want the Algebra I record", history)
	}
}
