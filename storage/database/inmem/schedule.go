package inmemdb

import (
	"sort"

	"github.com/highschool/scheduler/core/schedule"
)

type scheduleRepository struct {
	db *DB
}

func NewScheduleRepository(db *DB) schedule.Repository {
	return &scheduleRepository{db: db}
}

func (repo *scheduleRepository) querySections(match func(schedule.Section) bool) []schedule.Section {
	var sections []schedule.Section
	for _, sec := range repo.db.sections {
		if match(*sec) {
			sections = append(sections, *sec)
		}
	}
	sort.Slice(sections, func(i, j int) bool { return sections[i].ID < sections[j].ID })
	return sections
}

func (repo *scheduleRepository) QuerySectionsBySemester(semesterID int64) ([]schedule.Section, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.querySections(func(s schedule.Section) bool { return s.SemesterID == semesterID }), nil
}

func (repo *scheduleRepository) QuerySectionsByTeacher(teacherID string, semesterID int64) ([]schedule.Section, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.querySections(func(s schedule.Section) bool {
		return s.TeacherID == teacherID && s.SemesterID == semesterID
	}), nil
}

func (repo *scheduleRepository) GetSectionByID(id int64) (schedule.Section, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if sec, ok := repo.db.sections[id]; ok {
		return *sec, nil
	}
	return schedule.Section{}, schedule.ErrSectionNotFound
}

func (repo *scheduleRepository) CreateSections(sections []schedule.Section) ([]schedule.Section, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	created := make([]schedule.Section, 0, len(sections))
	for _, sec := range sections {
		if sec.ID == 0 {
			sec.ID = repo.db.nextPK()
		}
		sec := sec
		repo.db.sections[sec.ID] = &sec
		created = append(created, sec)
	}
	return created, nil
}

func (repo *scheduleRepository) DeleteSectionsBySemester(semesterID int64) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for id, sec := range repo.db.sections {
		if sec.SemesterID != semesterID {
			continue
		}
		delete(repo.db.sections, id)
		for eid, enr := range repo.db.enrollments {
			if enr.SectionID == id {
				delete(repo.db.enrollments, eid)
			}
		}
	}
	return nil
}

func (repo *scheduleRepository) QueryAllClassrooms() ([]schedule.Classroom, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	rooms := make([]schedule.Classroom, 0, len(repo.db.classrooms))
	for _, room := range repo.db.classrooms {
		rooms = append(rooms, *room)
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })
	return rooms, nil
}

func (repo *scheduleRepository) GetClassroomByID(id int64) (schedule.Classroom, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if room, ok := repo.db.classrooms[id]; ok {
		return *room, nil
	}
	return schedule.Classroom{}, schedule.ErrClassroomNotFound
}
