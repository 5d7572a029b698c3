package asset

import (
	"bytes"
	"context"
	"image"
	"image/draw"
	_ "image/png"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Texture is what the texture factory hands to the renderer: decoded
// pixels in a fixed NRGBA layout the render backend can upload as-is.
type Texture struct {
	Width, Height int
	Pixels        *image.NRGBA
}

func init() {
	image.RegisterFormat("bmp", "BM", bmp.Decode, bmp.DecodeConfig)
	image.RegisterFormat("tiff", "II*\x00", tiff.Decode, tiff.DecodeConfig)
	image.RegisterFormat("tiff", "MM\x00*", tiff.Decode, tiff.DecodeConfig)
}

// TextureFactory is the default TypeTexture factory worker: it decodes
// the reader's RawIR bytes into pixels. Concurrent decodes are bounded
// by a weighted semaphore since image decoding is CPU-bound and
// unbounded fan-out would just thrash the scheduler.
type TextureFactory struct {
	binding *FactoryBinding
	sem     *semaphore.Weighted
}

// NewTextureFactory binds to the hub's TypeTexture factory channel
// pair. maxConcurrentDecodes bounds how many decodes run at once.
func NewTextureFactory(hub *Hub, maxConcurrentDecodes int64) *TextureFactory {
	return &TextureFactory{
		binding: hub.FactoryBinding(TypeTexture),
		sem:     semaphore.NewWeighted(maxConcurrentDecodes),
	}
}

// Run serves requests until ctx is cancelled.
func (f *TextureFactory) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-f.binding.ToFactory:
			f.handle(ctx, msg)
		}
	}
}

func (f *TextureFactory) handle(ctx context.Context, msg ToFactoryMessage) {
	if !msg.Load {
		// Freeing a texture releases no off-heap resource beyond the
		// Go garbage collector's reach, so this is a pure registry
		// transition from the hub's point of view.
		f.binding.FromFactory <- FromFactoryMessage{TaskID: msg.TaskID, Asset: msg.Asset}
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	var tex Texture
	g.Go(func() error {
		if err := f.sem.Acquire(gctx, 1); err != nil {
			return err
		}
		defer f.sem.Release(1)

		raw, ok := msg.LoadMsg.IR.(RawIR)
		if !ok {
			return wrapErr("texture_load", KindInvalidAssetState, string(msg.Asset), nil)
		}
		decoded, _, err := image.Decode(bytes.NewReader(raw.Bytes))
		if err != nil {
			return wrapErr("texture_load", KindInvalidAssetState, string(msg.Asset), err)
		}
		bounds := decoded.Bounds()
		nrgba := image.NewNRGBA(bounds)
		draw.Draw(nrgba, bounds, decoded, bounds.Min, draw.Src)
		tex = Texture{Width: bounds.Dx(), Height: bounds.Dy(), Pixels: nrgba}
		return nil
	})

	err := g.Wait()
	if err != nil {
		f.binding.FromFactory <- FromFactoryMessage{Load: true, TaskID: msg.TaskID, Asset: msg.Asset, Err: err}
		return
	}
	usage := MemoryUsage{CPUBytes: len(tex.Pixels.Pix), GPUBytes: tex.Width * tex.Height * 4}
	f.binding.FromFactory <- FromFactoryMessage{
		Load:   true,
		TaskID: msg.TaskID,
		Asset:  msg.Asset,
		Result: LoadResult{Type: TypeTexture, Ptr: tex, Usage: usage},
	}
}
