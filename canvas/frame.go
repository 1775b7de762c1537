package canvas

import (
	"fmt"
	"io"
	"strconv"

	"vtrender/raster"
)

// SwapBuffers presents the back buffer: it diffs it against the last
// presented frame, writes the minimal escape-sequence stream in a single
// call, then flips the buffers and zeroes the new back buffer.
//
// Cells whose mask, color, and overlay all match the previous frame are
// skipped. A non-zero overlay byte wins over graphics: the cell prints the
// raw ASCII byte in the default foreground and mask changes underneath it
// are suppressed until the overlay goes away. Cursor moves are emitted
// only at the start of a run of changed cells; color changes only when
// the foreground differs from the one last emitted.
//
// If the write fails the buffers are not flipped, so the next call
// re-attempts the same delta.
func (c *Canvas) SwapBuffers() error {
	cur := c.sb[c.cur]
	prev := c.sb[1-c.cur]

	c.seq = append(c.seq[:0], seqDefaultFg...)
	curFg := raster.Default
	cursorDirty := true

	for row := 0; row < c.rows; row++ {
		for col := 0; col < c.cols; col++ {
			mask, fg, text := cur.Cell(row, col)
			pmask, pfg, ptext := prev.Cell(row, col)

			overlayNow := text != 0
			textDiff := text != ptext
			cellDiff := mask != pmask || fg != pfg

			if !textDiff && (overlayNow || !cellDiff) {
				cursorDirty = true
				continue
			}

			if cursorDirty {
				c.appendCursorMove(row+1, col+1)
				cursorDirty = false
			}

			if overlayNow {
				if curFg != raster.Default {
					c.seq = append(c.seq, seqDefaultFg...)
					curFg = raster.Default
				}
				c.seq = append(c.seq, text)
				continue
			}

			if fg != curFg {
				c.seq = append(c.seq, 0x1b, '[', '3', fg.SGR(), 'm')
				curFg = fg
			}
			b := raster.Braille(mask)
			c.seq = append(c.seq, 0xe2, 0xa0|b>>6, 0x80|b&0x3f)
		}
	}

	if err := c.writeSeq(); err != nil {
		return err
	}

	prev.Clear()
	c.cur = 1 - c.cur
	return nil
}

func (c *Canvas) appendCursorMove(row, col int) {
	c.seq = append(c.seq, 0x1b, '[')
	c.seq = strconv.AppendInt(c.seq, int64(row), 10)
	c.seq = append(c.seq, ';')
	c.seq = strconv.AppendInt(c.seq, int64(col), 10)
	c.seq = append(c.seq, 'H')
}

func (c *Canvas) writeSeq() error {
	n, err := c.out.Write(c.seq)
	if err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	if n != len(c.seq) {
		return io.ErrShortWrite
	}
	return nil
}
