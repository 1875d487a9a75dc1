package pkg

import (
	"regexp"
	"testing"
)

func TestName(t *testing.T) {
	if Name != "confxml" {
		t.Errorf("Name = %q, want %q", Name, "confxml")
	}

	if Description == "" {
		t.Error("Description is empty")
	}
}

func TestVersion_IsSemantic(t *testing.T) {
	semver := regexp.MustCompile(`^\d+\.\d+\.\d+(-[0-9A-Za-z.-]+)?$`)

	if !semver.MatchString(Version) {
		t.Errorf("Version %q is not a semantic version", Version)
	}
}

func TestAuthor(t *testing.T) {
	if len(Author) == 0 {
		t.Fatal("no authors")
	}

	for _, a := range Author {
		if a.Name == "" || a.Email == "" {
			t.Errorf("incomplete author %+v", a)
		}
	}
}
