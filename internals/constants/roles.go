package constants

const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
)
