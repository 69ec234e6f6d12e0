package liblink

import (
	"testing"

	"github.com/spf13/afero"

	"github.com/golanglink/liblink/internal/testutil"
)

func seedFs(t *testing.T, paths ...string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	for _, p := range paths {
		if err := afero.WriteFile(fs, p, []byte("uri: pkg:x\n"), 0o644); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
	}
	return fs
}

func TestDirListsOnlyDescriptorFiles(t *testing.T) {
	fs := seedFs(t, "libs/b.yaml", "libs/a.yml", "libs/notes.txt", "libs/nested/c.yaml")

	files, err := Dir("libs", WithFs(fs)).ListFiles()
	if err != nil {
		t.Fatalf("ListFiles failed: %v", err)
	}
	testutil.Len(t, files, 2, "non-descriptors and nested files excluded")
	testutil.Equal(t, "libs/a.yml", files[0], "sorted order")
	testutil.Equal(t, "libs/b.yaml", files[1])
}

func TestDirTreeWalksNestedDirectories(t *testing.T) {
	fs := seedFs(t, "libs/a.yaml", "libs/nested/deep/c.yaml", "libs/nested/skip.txt")

	files, err := DirTree("libs", WithFs(fs)).ListFiles()
	if err != nil {
		t.Fatalf("ListFiles failed: %v", err)
	}
	testutil.Len(t, files, 2)
	testutil.Equal(t, "libs/a.yaml", files[0])
	testutil.Equal(t, "libs/nested/deep/c.yaml", files[1])
}

func TestWithExtensionsOverridesDefaults(t *testing.T) {
	fs := seedFs(t, "libs/a.yaml", "libs/b.json")

	files, err := Dir("libs", WithFs(fs), WithExtensions(".json")).ListFiles()
	if err != nil {
		t.Fatalf("ListFiles failed: %v", err)
	}
	testutil.Len(t, files, 1)
	testutil.Equal(t, "libs/b.json", files[0])
}

func TestFilesSourceKeepsCallerOrder(t *testing.T) {
	fs := seedFs(t, "z.txt", "a.yaml")

	src := Files([]string{"z.txt", "a.yaml"}, WithFs(fs))
	files, err := src.ListFiles()
	if err != nil {
		t.Fatalf("ListFiles failed: %v", err)
	}
	testutil.Len(t, files, 2, "extensions are not checked for explicit files")
	testutil.Equal(t, "z.txt", files[0], "caller order preserved")

	data, err := src.ReadFile("z.txt")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	testutil.NotEmpty(t, data)
}

func TestMultiSourceConcatenatesInOrder(t *testing.T) {
	fs := seedFs(t, "one/a.yaml", "two/b.yaml")

	src := Multi(Dir("two", WithFs(fs)), Dir("one", WithFs(fs)))
	files, err := src.ListFiles()
	if err != nil {
		t.Fatalf("ListFiles failed: %v", err)
	}
	testutil.Len(t, files, 2)
	testutil.Equal(t, "two/b.yaml", files[0], "first source listed first")
	testutil.Equal(t, "one/a.yaml", files[1])

	data, err := src.ReadFile("one/a.yaml")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	testutil.NotEmpty(t, data)
}

func TestDirMissingDirectoryErrors(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, err := Dir("absent", WithFs(fs)).ListFiles()
	testutil.True(t, err != nil)
}
