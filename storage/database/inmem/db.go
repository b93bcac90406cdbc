// Package inmemdb is the in-memory storage backend used by tests and local
// tooling. Tables are plain maps behind one lock; repositories satisfy the
// same interfaces as the SQL backend.
package inmemdb

import (
	"sync"

	"github.com/highschool/scheduler/core/course"
	"github.com/highschool/scheduler/core/enrollment"
	"github.com/highschool/scheduler/core/schedule"
	"github.com/highschool/scheduler/core/semester"
	"github.com/highschool/scheduler/core/user"
)

type DB struct {
	mutex sync.RWMutex

	users       map[string]*user.User
	courses     map[int64]*course.Course
	semesters   map[int64]*semester.Semester
	classrooms  map[int64]*schedule.Classroom
	sections    map[int64]*schedule.Section
	enrollments map[int64]*enrollment.Enrollment
	history     map[int64]*enrollment.CourseHistory

	pkCount int64
}

func NewDB() *DB {
	return &DB{
		users:       make(map[string]*user.User),
		courses:     make(map[int64]*course.Course),
		semesters:   make(map[int64]*semester.Semester),
		classrooms:  make(map[int64]*schedule.Classroom),
		sections:    make(map[int64]*schedule.Section),
		enrollments: make(map[int64]*enrollment.Enrollment),
		history:     make(map[int64]*enrollment.CourseHistory),
	}
}

// nextPK must be called with the write lock held.
func (db *DB) nextPK() int64 {
	db.pkCount++
	return db.pkCount
}

// seeding helpers for tests and the admin CLI

func (db *DB) AddCourse(c course.Course) course.Course {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	if c.ID == 0 {
		c.ID = db.nextPK()
	}
	db.courses[c.ID] = &c
	return c
}

func (db *DB) AddSemester(s semester.Semester) semester.Semester {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	if s.ID == 0 {
		s.ID = db.nextPK()
	}
	db.semesters[s.ID] = &s
	return s
}

func (db *DB) AddClassroom(room schedule.Classroom) schedule.Classroom {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	if room.ID == 0 {
		room.ID = db.nextPK()
	}
	db.classrooms[room.ID] = &room
	return room
}

func (db *DB) AddSection(sec schedule.Section) schedule.Section {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	if sec.ID == 0 {
		sec.ID = db.nextPK()
	}
	db.sections[sec.ID] = &sec
	return sec
}

func (db *DB) AddHistory(h enrollment.CourseHistory) enrollment.CourseHistory {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	if h.ID == 0 {
		h.ID = db.nextPK()
	}
	db.history[h.ID] = &h
	return h
}
