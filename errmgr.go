package jpegturbo

import (
	"fmt"
	"os"
	"runtime"
)

// msgLengthMax is the capacity of a formatted codec message.
const msgLengthMax = 200

// msgCode identifies an entry in messageTable.
type msgCode int

// Codec messages. Codes prefixed with err are fatal, wrn are warnings.
const (
	msgNone msgCode = iota
	errBadComponentID
	errBadCropSpec
	errBadDCTCoef
	errBadHuffTable
	errBadLength
	errBadProgression
	errBadPrecision
	errBadSampling
	errBadState
	errBufferSize
	errComponentCount
	errConversionNotImpl
	errDHTIndex
	errDQTIndex
	errEmptyImage
	errFractSample
	errImageTooBig
	errInputEmpty
	errInputEOF
	errNoHuffTable
	errNoImage
	errNoQuantTable
	errNoSOI
	errNotCompiled
	errOutOfMemory
	errSOFDuplicate
	errSOFUnsupported
	errSOIDuplicate
	errSOSNoSOF
	errTooLittleData
	errUnknownMarker
	wrnAdobeXform
	wrnBogusProgression
	wrnExtraneousData
	wrnHitMarker
	wrnHuffBadCode
	wrnJPEGEOF
	wrnMustResync
	wrnNotSequential
	wrnTooMuchData
)

var messageTable = [...]string{
	msgNone:              "Bogus message code %d",
	errBadComponentID:    "Invalid component ID %d in SOS",
	errBadCropSpec:       "Invalid crop request",
	errBadDCTCoef:        "DCT coefficient out of range",
	errBadHuffTable:      "Bogus Huffman table definition",
	errBadLength:         "Bogus marker length",
	errBadProgression:    "Invalid progressive parameters Ss=%d Se=%d Ah=%d Al=%d",
	errBadPrecision:      "Unsupported JPEG data precision %d",
	errBadSampling:       "Bogus sampling factors",
	errBadState:          "Improper call to JPEG library in state %d",
	errBufferSize:        "Buffer passed to JPEG library is too small",
	errComponentCount:    "Too many color components: %d, max %d",
	errConversionNotImpl: "Unsupported color conversion request",
	errDHTIndex:          "Bogus DHT index %d",
	errDQTIndex:          "Bogus DQT index %d",
	errEmptyImage:        "Empty JPEG image (DNL not supported)",
	errFractSample:       "Fractional sampling not implemented yet",
	errImageTooBig:       "Maximum supported image dimension is %d pixels",
	errInputEmpty:        "Empty input buffer",
	errInputEOF:          "Premature end of JPEG file",
	errNoHuffTable:       "Huffman table 0x%02x was not defined",
	errNoImage:           "JPEG datastream contains no image",
	errNoQuantTable:      "Quantization table 0x%02x was not defined",
	errNoSOI:             "Not a JPEG file: starts with 0x%02x 0x%02x",
	errNotCompiled:       "Requested feature was omitted at compile time",
	errOutOfMemory:       "Insufficient memory (case %d)",
	errSOFDuplicate:      "Invalid JPEG file structure: two SOF markers",
	errSOFUnsupported:    "Unsupported JPEG process: SOF type 0x%02x",
	errSOIDuplicate:      "Invalid JPEG file structure: two SOI markers",
	errSOSNoSOF:          "Invalid JPEG file structure: SOS before SOF",
	errTooLittleData:     "Application transferred too few scanlines",
	errUnknownMarker:     "Unsupported marker type 0x%02x",
	wrnAdobeXform:        "Unknown Adobe color transform code %d",
	wrnBogusProgression:  "Inconsistent progression sequence for component %d coefficient %d",
	wrnExtraneousData:    "Corrupt JPEG data: %d extraneous bytes before marker 0x%02x",
	wrnHitMarker:         "Corrupt JPEG data: premature end of data segment",
	wrnHuffBadCode:       "Corrupt JPEG data: bad Huffman code",
	wrnJPEGEOF:           "Premature end of JPEG file",
	wrnMustResync:        "Corrupt JPEG data: found marker 0x%02x instead of RST%d",
	wrnNotSequential:     "Invalid SOS parameters for sequential JPEG",
	wrnTooMuchData:       "Application transferred too many scanlines",
}

// errorManager is the set of hooks the codec reports through.
// The defaults print to stderr and panic on fatal errors.
type errorManager struct {
	errorExit     func(c *codecCommon)
	emitMessage   func(c *codecCommon, level int)
	outputMessage func(c *codecCommon)
	formatMessage func(c *codecCommon) string

	msgCode     msgCode
	msgParams   []any
	traceLevel  int
	numWarnings int
}

// codecCommon is the part shared by every codec object.
type codecCommon struct {
	err         *errorManager
	globalState int
}

// fatal reports an unrecoverable error. It never returns.
func (c *codecCommon) fatal(code msgCode, params ...any) {
	c.err.msgCode = code
	c.err.msgParams = params
	c.err.errorExit(c)

	panic("jpegturbo: errorExit returned")
}

// warn reports a recoverable problem with the data.
func (c *codecCommon) warn(code msgCode, params ...any) {
	c.err.msgCode = code
	c.err.msgParams = params
	c.err.emitMessage(c, -1)
}

// stdErrorManager fills em with the default hooks and returns it.
func stdErrorManager(em *errorManager) *errorManager {
	*em = errorManager{
		errorExit: func(c *codecCommon) {
			c.err.outputMessage(c)

			panic(fmt.Errorf("jpegturbo: %s", c.err.formatMessage(c)))
		},
		emitMessage: func(c *codecCommon, level int) {
			if level < 0 {
				if c.err.numWarnings == 0 || c.err.traceLevel >= 3 {
					c.err.outputMessage(c)
				}
				c.err.numWarnings++
			} else if c.err.traceLevel >= level {
				c.err.outputMessage(c)
			}
		},
		outputMessage: func(c *codecCommon) {
			fmt.Fprintln(os.Stderr, c.err.formatMessage(c))
		},
		formatMessage: formatMessage,
	}

	return em
}

func formatMessage(c *codecCommon) string {
	code := c.err.msgCode
	if code <= msgNone || int(code) >= len(messageTable) {
		return fmt.Sprintf(messageTable[msgNone], code)
	}

	return fmt.Sprintf(messageTable[code], c.err.msgParams...)
}

// longJump is the panic value used to unwind back to interceptor.guard.
type longJump struct{}

// interceptor captures codec messages into a fixed buffer and turns fatal
// errors into a single jump back to guard.
type interceptor struct {
	errorManager

	buf [msgLengthMax]byte
	n   int
}

// install resets the hooks and redirects output and fatal exits into s.
func (s *interceptor) install() *errorManager {
	stdErrorManager(&s.errorManager)
	s.n = 0

	s.outputMessage = func(c *codecCommon) {
		s.store(s.formatMessage(c))
	}
	s.errorExit = func(c *codecCommon) {
		s.outputMessage(c)
		s.numWarnings++

		panic(longJump{})
	}

	return &s.errorManager
}

func (s *interceptor) store(msg string) {
	s.n = copy(s.buf[:msgLengthMax-1], msg)
}

// abort records a message and jumps back to guard.
func (s *interceptor) abort(format string, a ...any) {
	s.store(fmt.Sprintf(format, a...))
	s.numWarnings++

	panic(longJump{})
}

// guard runs fn and reports whether it was left through a jump.
// Runtime faults raised by malformed input are treated as fatal errors.
func (s *interceptor) guard(fn func()) (jumped bool) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}

		switch v := r.(type) {
		case longJump:
		case runtime.Error:
			s.store("Corrupt JPEG data: " + v.Error())
			s.numWarnings++
		default:
			panic(r)
		}

		jumped = true
	}()

	fn()

	return false
}

// failed reports whether any warning or error was counted.
func (s *interceptor) failed() bool {
	return s.numWarnings > 0
}

func (s *interceptor) message() string {
	return string(s.buf[:s.n])
}

// lastCode returns the code of the most recent codec message.
func (s *interceptor) lastCode() msgCode {
	return s.msgCode
}
