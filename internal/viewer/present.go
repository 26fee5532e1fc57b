package viewer

import (
	"fmt"
	"image"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/meshinfo/internal/preview"
)

// Presenter copies rendered canvas frames to the default framebuffer
// through a texture attached to a read framebuffer.
type Presenter struct {
	fbo     uint32
	texture uint32
	width   int32
	height  int32
}

// NewPresenter creates the texture and framebuffer used to present frames.
func NewPresenter() (*Presenter, error) {
	p := &Presenter{}
	fbo, tex, err := colorTarget(1, 1)
	if err != nil {
		return nil, fmt.Errorf("creating presenter: %w", err)
	}
	p.fbo, p.texture, p.width, p.height = fbo, tex, 1, 1
	return p, nil
}

// colorTarget creates a framebuffer with a single RGBA8 color texture.
func colorTarget(width, height int32) (fbo, tex uint32, err error) {
	gl.GenFramebuffers(1, &fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)

	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, width, height, 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, tex, 0)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		gl.DeleteFramebuffers(1, &fbo)
		gl.DeleteTextures(1, &tex)
		return 0, 0, fmt.Errorf("framebuffer incomplete: 0x%x", status)
	}
	return fbo, tex, nil
}

// QueryCaps reports what the current GL context supports.
func QueryCaps() preview.Caps {
	fbo, tex, err := colorTarget(4, 4)
	if err != nil {
		return preview.Caps{}
	}
	gl.DeleteFramebuffers(1, &fbo)
	gl.DeleteTextures(1, &tex)
	return preview.Caps{RenderTargets: true}
}

// Present uploads img and stretches it over a drawable of dw x dh pixels.
func (p *Presenter) Present(img *image.RGBA, dw, dh int) {
	w, h := int32(img.Rect.Dx()), int32(img.Rect.Dy())
	if w < 1 || h < 1 {
		return
	}

	gl.BindTexture(gl.TEXTURE_2D, p.texture)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(img.Stride/4))
	if w != p.width || h != p.height {
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, w, h, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
		p.width, p.height = w, h
	} else {
		gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, w, h, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(img.Pix))
	}
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)

	// The image's first row is the top, GL's is the bottom; flip on blit.
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, p.fbo)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
	gl.Viewport(0, 0, int32(dw), int32(dh))
	gl.BlitFramebuffer(0, 0, w, h, 0, int32(dh), int32(dw), 0, gl.COLOR_BUFFER_BIT, gl.LINEAR)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// Destroy releases the GL objects.
func (p *Presenter) Destroy() {
	if p.fbo != 0 {
		gl.DeleteFramebuffers(1, &p.fbo)
		p.fbo = 0
	}
	if p.texture != 0 {
		gl.DeleteTextures(1, &p.texture)
		p.texture = 0
	}
}
