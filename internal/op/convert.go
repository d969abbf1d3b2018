package op

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"

	"github.com/coursegen/coursegen/api"
	"github.com/coursegen/coursegen/internal/broker"
	"github.com/coursegen/coursegen/internal/course"
)

// ConvertPlantUml rasterizes one PlantUML source through the diagram
// worker and records the produced image.
type ConvertPlantUml struct {
	Env    *Env
	Input  *course.CourseFile
	Output string
}

func (o ConvertPlantUml) Exec(ctx context.Context) error {
	return convertImage(ctx, o.Env, o.Input, o.Output,
		api.PlantUmlProcessSubject, api.PlantUmlProcessStream)
}

// ConvertDrawIo rasterizes one DrawIO source through the diagram worker.
type ConvertDrawIo struct {
	Env    *Env
	Input  *course.CourseFile
	Output string
}

func (o ConvertDrawIo) Exec(ctx context.Context) error {
	return convertImage(ctx, o.Env, o.Input, o.Output,
		api.DrawIoProcessSubject, api.DrawIoProcessStream)
}

func convertImage(ctx context.Context, env *Env, input *course.CourseFile, output, subject, stream string) error {
	rel := input.RelativePath()
	slog.Info("converting diagram", "kind", input.Kind.String(), "path", rel, "output", output)
	err := func() error {
		source, err := os.ReadFile(input.Path)
		if err != nil {
			return fmt.Errorf("reading diagram source: %w", err)
		}
		reply := broker.ReplySubject(api.ImgResultSubject, rel)
		result, err := env.Broker.Request(ctx, broker.RequestSpec{
			Subject:      subject,
			Stream:       stream,
			ReplySubject: reply,
			ReplyStream:  api.ImgResultStream,
			Payload: api.ImageRequest{
				Data:         string(source),
				ReplySubject: reply,
				OutputFormat: "png",
			},
		})
		if err != nil {
			return err
		}
		image, err := base64.StdEncoding.DecodeString(result)
		if err != nil {
			return fmt.Errorf("decoding image result: %w", err)
		}
		if err := env.writeFile(output, image); err != nil {
			return err
		}
		input.RecordOutput(output)
		return nil
	}()
	env.record(reportEntry(input, output, err))
	if err != nil {
		slog.Error("diagram conversion failed", "path", rel, "err", err)
		return fmt.Errorf("converting %s: %w", rel, err)
	}
	return nil
}
