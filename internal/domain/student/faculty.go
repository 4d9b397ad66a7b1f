package student

// Faculties is the fixed set of faculty names students can register with.
// The names double as LINE audience tag names, so changing an entry here
// effectively starts a new broadcast group on the platform side.
var Faculties = []string{
	"คณะวิศวกรรมศาสตร์",
	"คณะวิทยาศาสตร์",
	"คณะแพทยศาสตร์",
	"คณะมนุษยศาสตร์",
	"คณะสังคมศาสตร์",
	"คณะบริหารธุรกิจ",
	"คณะนิติศาสตร์",
	"คณะเทคโนโลยีสารสนเทศ",
	"คณะศึกษาศาสตร์",
	"คณะสถาปัตยกรรมศาสตร์",
}

// IsValidFaculty reports whether name is one of the configured faculties.
func IsValidFaculty(name string) bool {
	for _, f := range Faculties {
		if f == name {
			return true
		}
	}
	return false
}
