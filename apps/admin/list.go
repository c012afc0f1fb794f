package main

import (
	"context"
	"fmt"
)

func (cli *commandLine) listCourses() error {
	courses, err := cli.school.Courses(context.Background())
	if err != nil {
		return err
	}
	for _, c := range courses {
		fmt.Printf("%-4d %-10s %s\n", c.ID, c.Code, c.Name)
	}
	return nil
}

func (cli *commandLine) listStudents(courseID int) error {
	students, err := cli.school.Students(context.Background())
	if err != nil {
		return err
	}
	for _, s := range students {
		if courseID != 0 && !enrolled(s.CourseIDs, courseID) {
			continue
		}
		fmt.Printf("%-4d %-25s %s\n", s.ID, s.Name, s.Email)
	}
	return nil
}

// listProfessors shows the staff directory. The backend enforces this too;
// checking here spares a round-trip for unprivileged professors.
func (cli *commandLine) listProfessors() error {
	ident, ok := cli.sessions.Current()
	if !ok || !(ident.IsAdmin || ident.HasRole("principal")) {
		return errNotPermitted
	}
	professors, err := cli.school.Professors(context.Background())
	if err != nil {
		return err
	}
	for _, p := range professors {
		fmt.Printf("%-4d %-25s %s\n", p.ID, p.Name, p.Email)
	}
	return nil
}

func enrolled(courseIDs []int, id int) bool {
	for _, cid := range courseIDs {
		if cid == id {
			return true
		}
	}
	return false
}
