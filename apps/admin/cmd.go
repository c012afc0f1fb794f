package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/client"
	"github.com/trezcool/academia/core/school"
	"github.com/trezcool/academia/core/session"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp         = errors.New("help provided")
	errNotPermitted = errors.New("permission denied: principals and admins only")
)

type commandLine struct {
	conf     *core.Config
	sessions *session.Store
	api      *client.Client
	school   *school.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  login -username USERNAME       - log in to the Academia backend")
	fmt.Println("  logout                         - log out and clear the saved session")
	fmt.Println("  whoami                         - show the logged-in professor and token expiry")
	fmt.Println("  courses                        - list courses")
	fmt.Println("  students [-course ID]          - list students")
	fmt.Println("  professors                     - list professors (principals and admins only)")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	loginCmd := flag.NewFlagSet("login", flag.ExitOnError)
	loginUname := loginCmd.String("username", "", "The professor's username. The password will be prompted next.")

	studentsCmd := flag.NewFlagSet("students", flag.ExitOnError)
	studentsCourse := studentsCmd.Int("course", 0, "Only students enrolled in this course.")

	switch args[1] {
	case "login":
		if err := loginCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *loginUname == "" {
			loginCmd.Usage()
			return errHelp
		}
		fmt.Print("Enter password:")
		pwd, err := readPasswordFunc(syscall.Stdin)
		fmt.Println()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			loginCmd.Usage()
			return errHelp
		}
		return cli.login(*loginUname, string(pwd))
	case "logout":
		return cli.logout()
	case "whoami":
		return cli.whoami()
	case "courses":
		return cli.listCourses()
	case "students":
		if err := studentsCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.listStudents(*studentsCourse)
	case "professors":
		return cli.listProfessors()
	default:
		cli.printUsage()
		return errHelp
	}
}
