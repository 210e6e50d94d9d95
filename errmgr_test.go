package jpegturbo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterceptorCapturesFatal(t *testing.T) {
	var jerr interceptor
	c := &codecCommon{err: jerr.install()}

	reached := false
	jumped := jerr.guard(func() {
		c.fatal(errNoSOI, 0x12, 0x34)
		reached = true
	})

	assert.True(t, jumped)
	assert.False(t, reached)
	assert.True(t, jerr.failed())
	assert.Equal(t, "Not a JPEG file: starts with 0x12 0x34", jerr.message())
	assert.Equal(t, errNoSOI, jerr.lastCode())
}

func TestInterceptorWarningIsFailure(t *testing.T) {
	var jerr interceptor
	c := &codecCommon{err: jerr.install()}

	jumped := jerr.guard(func() {
		c.warn(wrnHitMarker)
		c.warn(wrnHuffBadCode)
	})

	assert.False(t, jumped)
	assert.True(t, jerr.failed())
	assert.Equal(t, 2, jerr.numWarnings)
	// only the first warning is kept
	assert.Equal(t, "Corrupt JPEG data: premature end of data segment", jerr.message())
}

func TestInterceptorClean(t *testing.T) {
	var jerr interceptor
	jerr.install()

	jumped := jerr.guard(func() {})

	assert.False(t, jumped)
	assert.False(t, jerr.failed())
	assert.Empty(t, jerr.message())
}

func TestInterceptorAbort(t *testing.T) {
	var jerr interceptor
	jerr.install()

	jumped := jerr.guard(func() {
		jerr.abort("skip scanlines returned %d rather than %d", 3, 7)
	})

	assert.True(t, jumped)
	assert.True(t, jerr.failed())
	assert.Equal(t, "skip scanlines returned 3 rather than 7", jerr.message())
}

func TestInterceptorRuntimeError(t *testing.T) {
	var jerr interceptor
	jerr.install()

	var s []byte
	jumped := jerr.guard(func() {
		_ = s[5]
	})

	assert.True(t, jumped)
	assert.True(t, jerr.failed())
	assert.True(t, strings.HasPrefix(jerr.message(), "Corrupt JPEG data: "))
}

func TestInterceptorRepanicsForeignValues(t *testing.T) {
	var jerr interceptor
	jerr.install()

	assert.PanicsWithValue(t, "boom", func() {
		jerr.guard(func() { panic("boom") })
	})
}

func TestInterceptorTruncatesMessages(t *testing.T) {
	var jerr interceptor
	jerr.install()

	jerr.guard(func() {
		jerr.abort("%s", strings.Repeat("x", 3*msgLengthMax))
	})

	assert.Len(t, jerr.message(), msgLengthMax-1)
}

func TestInterceptorReinstall(t *testing.T) {
	var jerr interceptor
	c := &codecCommon{err: jerr.install()}
	jerr.guard(func() { c.fatal(errBadLength) })
	require.True(t, jerr.failed())

	jerr.install()
	assert.False(t, jerr.failed())
	assert.Empty(t, jerr.message())
}

func TestFormatMessage(t *testing.T) {
	var em errorManager
	stdErrorManager(&em)
	c := &codecCommon{err: &em}

	em.msgCode = errImageTooBig
	em.msgParams = []any{65500}
	assert.Equal(t, "Maximum supported image dimension is 65500 pixels", formatMessage(c))

	em.msgCode = msgCode(9999)
	em.msgParams = nil
	assert.Equal(t, "Bogus message code 9999", formatMessage(c))
}

func TestStdErrorManagerPanics(t *testing.T) {
	var em errorManager
	stdErrorManager(&em)
	em.outputMessage = func(*codecCommon) {}
	c := &codecCommon{err: &em}

	assert.PanicsWithError(t, "jpegturbo: Bogus marker length", func() {
		c.fatal(errBadLength)
	})
}

func TestMessageTableComplete(t *testing.T) {
	for code := msgNone; code <= wrnTooMuchData; code++ {
		assert.NotEmpty(t, messageTable[code], "code %d", code)
	}
}
