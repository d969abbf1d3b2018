package op

import (
	"path/filepath"

	"github.com/coursegen/coursegen/internal/course"
)

// ForFile composes the full operation tree for one course file: a single
// conversion for diagram sources, or one leaf per output variant — run
// concurrently — for notebooks and data files.
func ForFile(env *Env, f *course.CourseFile) Operation {
	c := f.Section().Course
	switch f.Kind {
	case course.KindPlantUml:
		return ConvertPlantUml{Env: env, Input: f, Output: f.ImagePath()}
	case course.KindDrawIo:
		return ConvertDrawIo{Env: env, Input: f, Output: f.ImagePath()}
	case course.KindNotebook:
		progLang := f.ProgLang()
		if progLang == "" {
			progLang = c.Spec.ProgLang
		}
		operations := make(Concurrently, 0, 10)
		for _, outputSpec := range c.OutputSpecs() {
			name := f.OutputName(outputSpec.Lang, course.ExtFor(outputSpec.Format, progLang))
			operations = append(operations, ProcessNotebook{
				Env:      env,
				Input:    f,
				Output:   filepath.Join(outputSpec.Dir, f.Section().Name.Get(outputSpec.Lang), name),
				Lang:     outputSpec.Lang,
				Format:   outputSpec.Format,
				Mode:     outputSpec.Mode,
				ProgLang: progLang,
			})
		}
		return operations
	default:
		operations := make(Concurrently, 0, 10)
		for _, outputSpec := range c.OutputSpecs() {
			operations = append(operations, CopyFile{
				Env:    env,
				Input:  f,
				Output: filepath.Join(outputSpec.Dir, f.Section().Name.Get(outputSpec.Lang), f.RelativePath()),
				Lang:   outputSpec.Lang,
				Format: outputSpec.Format,
				Mode:   outputSpec.Mode,
			})
		}
		return operations
	}
}

// ForDictGroup composes the per-language mirror operations for a
// dictionary group.
func ForDictGroup(env *Env, group *course.DictGroup) Operation {
	return Concurrently{
		CopyDictGroup{Env: env, Group: group, Lang: course.LangDe},
		CopyDictGroup{Env: env, Group: group, Lang: course.LangEn},
	}
}
