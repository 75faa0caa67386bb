// Command token mints an access token for a known employee ID.
// Sign-in lives outside this service; this is for local use and smoke tests.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/cmlabs-hris/hris-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-attendance-go/internal/pkg/jwt"
	"github.com/joho/godotenv"
)

func main() {
	employeeID := flag.String("employee", "", "employee ID placed in the employee_id claim")
	role := flag.String("role", string(employee.RoleEmployee), "Employee, Admin or HR")
	expiration := flag.String("exp", "", "token lifetime, defaults to JWT_ACCESS_EXPIRATION_TIME")
	flag.Parse()

	_ = godotenv.Load()

	if *employeeID == "" {
		fmt.Fprintln(os.Stderr, "-employee is required")
		os.Exit(2)
	}
	r := employee.Role(*role)
	if r != employee.RoleEmployee && !r.CanManageAttendance() {
		fmt.Fprintln(os.Stderr, employee.ErrInvalidRole)
		os.Exit(2)
	}

	secret := os.Getenv("JWT_SECRET_KEY")
	if secret == "" {
		slog.Error("JWT_SECRET_KEY is required")
		os.Exit(1)
	}
	exp := *expiration
	if exp == "" {
		exp = os.Getenv("JWT_ACCESS_EXPIRATION_TIME")
	}
	if exp == "" {
		exp = "1h"
	}

	token, _, err := jwt.NewJWTService(secret, exp).GenerateAccessToken(*employeeID, r)
	if err != nil {
		slog.Error("Failed to generate token", "error", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
