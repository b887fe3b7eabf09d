// Package share renders the profile card and builds social share links.
package share

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"  // avatar formats
	_ "image/jpeg" // avatar formats
	"image/png"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/skip2/go-qrcode"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	CardWidth  = 1200
	CardHeight = 630

	avatarSize = 180
	qrSize     = 260
	margin     = 64
)

// DefaultAccent is used when no accent color was chosen.
const DefaultAccent = "#000000"

// Card is what the share card shows.
type Card struct {
	Name   string
	Handle string
	ID     string
	Accent string
	Avatar image.Image
}

// ProfileURL returns the GitHub profile URL for handle.
func ProfileURL(handle string) string {
	return "https://github.com/" + handle
}

// ShortID returns the first eight characters of id.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Accent parses hex, falling back to DefaultAccent.
func Accent(hex string) colorful.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		c, _ = colorful.Hex(DefaultAccent)
	}
	return c
}

// LightAccent is the accent at about 8% over white, the card background.
func LightAccent(hex string) colorful.Color {
	white := colorful.Color{R: 1, G: 1, B: 1}
	return white.BlendRgb(Accent(hex), 0x15/255.0).Clamped()
}

// Render draws the card.
func Render(c Card) (*image.RGBA, error) {
	accent := Accent(c.Accent)
	img := image.NewRGBA(image.Rect(0, 0, CardWidth, CardHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(LightAccent(c.Accent)), image.Point{}, draw.Src)
	draw.Draw(img, image.Rect(0, 0, CardWidth, 12), image.NewUniform(accent), image.Point{}, draw.Src)

	textX := margin
	if c.Avatar != nil {
		drawAvatar(img, c.Avatar, image.Pt(margin, margin+20))
		textX = margin + avatarSize + 40
	}

	ink := color.RGBA{R: 0x1f, G: 0x1f, B: 0x1f, A: 0xff}
	muted := color.RGBA{R: 0x6b, G: 0x6b, B: 0x6b, A: 0xff}
	name := c.Name
	if strings.TrimSpace(name) == "" {
		name = c.Handle
	}
	drawText(img, name, textX, margin+40, 5, ink)
	if c.Handle != "" {
		drawText(img, "@"+c.Handle, textX, margin+130, 3, accent)
	}
	if id := ShortID(c.ID); id != "" {
		drawText(img, "ID "+id, margin, CardHeight-margin-40, 2, muted)
	}
	drawText(img, "Made with readmegen", margin, CardHeight-margin, 2, muted)

	if c.Handle != "" {
		qr, err := qrcode.New(ProfileURL(c.Handle), qrcode.Highest)
		if err != nil {
			return nil, fmt.Errorf("failed to encode QR code: %w", err)
		}
		qr.ForegroundColor = accent.Clamped()
		qr.BackgroundColor = color.White
		code := qr.Image(qrSize)
		at := image.Pt(CardWidth-margin-qrSize, (CardHeight-qrSize)/2)
		draw.Draw(img, image.Rectangle{Min: at, Max: at.Add(image.Pt(qrSize, qrSize))}, code, code.Bounds().Min, draw.Src)
	}
	return img, nil
}

// WritePNG encodes the card as PNG.
func WritePNG(w io.Writer, c Card) error {
	img, err := Render(c)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode card: %w", err)
	}
	return nil
}

// FetchAvatar downloads and decodes an avatar image.
func FetchAvatar(ctx context.Context, url string) (image.Image, error) {
	if url == "" {
		return nil, nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch avatar: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch avatar: status %d", resp.StatusCode)
	}
	img, _, err := image.Decode(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to decode avatar: %w", err)
	}
	return img, nil
}

// circle is a round alpha mask.
type circle struct {
	center image.Point
	r      int
}

func (c circle) ColorModel() color.Model { return color.AlphaModel }

func (c circle) Bounds() image.Rectangle {
	return image.Rect(c.center.X-c.r, c.center.Y-c.r, c.center.X+c.r, c.center.Y+c.r)
}

func (c circle) At(x, y int) color.Color {
	dx, dy := x-c.center.X, y-c.center.Y
	if dx*dx+dy*dy <= c.r*c.r {
		return color.Alpha{A: 255}
	}
	return color.Alpha{}
}

func drawAvatar(dst draw.Image, avatar image.Image, at image.Point) {
	scaled := image.NewRGBA(image.Rect(0, 0, avatarSize, avatarSize))
	xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), avatar, avatar.Bounds(), xdraw.Src, nil)
	r := image.Rectangle{Min: at, Max: at.Add(image.Pt(avatarSize, avatarSize))}
	mask := circle{center: image.Pt(avatarSize/2, avatarSize/2), r: avatarSize / 2}
	draw.DrawMask(dst, r, scaled, image.Point{}, mask, image.Point{}, draw.Over)
}

// drawText renders s with the built-in bitmap face, enlarged by scale.
// y is the baseline.
func drawText(dst draw.Image, s string, x, y, scale int, c color.Color) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, s).Ceil()
	if width == 0 {
		return
	}
	small := image.NewRGBA(image.Rect(0, 0, width, face.Height))
	d := &font.Drawer{
		Dst:  small,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(0, face.Ascent),
	}
	d.DrawString(s)
	top := y - face.Ascent*scale
	r := image.Rect(x, top, x+width*scale, top+face.Height*scale)
	xdraw.NearestNeighbor.Scale(dst, r, small, small.Bounds(), xdraw.Over, nil)
}
