package record

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/asteroid-belt/learnpath/internal/ledger"
	"github.com/asteroid-belt/learnpath/internal/models"
)

// section is the decoder state between headers.
type section int

const (
	sectionNone section = iota
	sectionInterests
	sectionEnrolled
	sectionCompleted
	sectionProgress
	sectionLastModule
	sectionLastAccess
	sectionRatings
	sectionUnknown // a header this build does not know; members are skipped
)

var sectionHeaders = map[string]section{
	headerInterests:  sectionInterests,
	headerEnrolled:   sectionEnrolled,
	headerCompleted:  sectionCompleted,
	headerProgress:   sectionProgress,
	headerLastModule: sectionLastModule,
	headerLastAccess: sectionLastAccess,
	headerRatings:    sectionRatings,
}

func (s section) String() string {
	switch s {
	case sectionInterests:
		return "interests"
	case sectionEnrolled:
		return "enrolled"
	case sectionCompleted:
		return "completed"
	case sectionProgress:
		return "progress"
	case sectionLastModule:
		return "last_module"
	case sectionLastAccess:
		return "last_access"
	case sectionRatings:
		return "ratings"
	case sectionUnknown:
		return "unknown"
	default:
		return "none"
	}
}

// digestPattern matches both argon2id digests and legacy base64 passwords.
var digestPattern = regexp.MustCompile(`^[A-Za-z0-9+/=$]+$`)

// entryBuilder collects the fields of one rating entry until it is committed.
type entryBuilder struct {
	value  int
	review string
	at     time.Time
}

func (b *entryBuilder) build() models.RatingEntry {
	return models.RatingEntry{Value: b.value, Review: b.review, At: b.at}
}

type learnerDecoder struct {
	log     zerolog.Logger
	line    int
	learner *models.Learner
	sawID   bool

	section   section
	courseID  string
	inRatings bool
	pending   *entryBuilder
}

// DecodeLearner reads a learner record. Fields that fail to parse are logged
// and skipped. A record without USER_ID, or with a password digest that is
// not base64-shaped, is rejected with a *DecodeError.
func DecodeLearner(r io.Reader, log zerolog.Logger) (*models.Learner, error) {
	d := &learnerDecoder{
		log:     log,
		learner: models.NewLearner("", "", "", ""),
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		d.line++
		if err := d.handle(scanner.Text()); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, &DecodeError{Line: d.line, Msg: "read failed", Err: err}
	}
	d.flush()

	if !d.sawID {
		return nil, &DecodeError{Msg: "missing " + fieldUserID}
	}
	return d.learner, nil
}

func (d *learnerDecoder) handle(raw string) error {
	raw = strings.TrimRight(raw, " \t\r")
	if raw == "" {
		d.flush()
		return nil
	}
	if raw[0] == ' ' || raw[0] == '\t' {
		d.member(strings.TrimSpace(raw))
		return nil
	}
	return d.top(raw)
}

// top handles an unindented line: an identity field or a section header.
func (d *learnerDecoder) top(line string) error {
	if s, ok := sectionHeaders[line]; ok {
		d.enter(s)
		return nil
	}

	switch {
	case strings.HasPrefix(line, fieldUserID):
		d.enter(sectionNone)
		d.learner.ID = value(line, fieldUserID)
		d.sawID = d.learner.ID != ""
	case strings.HasPrefix(line, fieldName):
		d.enter(sectionNone)
		d.learner.Name = value(line, fieldName)
	case strings.HasPrefix(line, fieldEmail):
		d.enter(sectionNone)
		d.learner.Email = value(line, fieldEmail)
	case strings.HasPrefix(line, fieldPassword):
		d.enter(sectionNone)
		digest := value(line, fieldPassword)
		if digest != "" && !digestPattern.MatchString(digest) {
			return &DecodeError{Line: d.line, Msg: "invalid password digest"}
		}
		d.learner.PasswordDigest = digest
	case strings.HasPrefix(line, fieldSkillLevel):
		d.enter(sectionNone)
		level, err := models.ParseSkillLevel(value(line, fieldSkillLevel))
		if err != nil {
			d.skip("skill level", line, err)
			return nil
		}
		d.learner.SkillLevel = level
	case strings.HasSuffix(line, ":"):
		d.enter(sectionUnknown)
	}
	return nil
}

// enter switches sections, committing any open rating entry first.
func (d *learnerDecoder) enter(s section) {
	d.flush()
	d.section = s
	d.courseID = ""
	d.inRatings = false
}

// member dispatches an indented line to the handler of the current section.
func (d *learnerDecoder) member(item string) {
	switch d.section {
	case sectionInterests:
		d.interest(item)
	case sectionEnrolled:
		if id := listedCourseID(item); id != "" && !d.learner.IsEnrolled(id) {
			d.learner.Enrolled = append(d.learner.Enrolled, id)
		}
	case sectionCompleted:
		if id := listedCourseID(item); id != "" && !d.learner.HasCompleted(id) {
			d.learner.Completed = append(d.learner.Completed, id)
		}
	case sectionProgress:
		d.progress(item)
	case sectionLastModule:
		d.lastModule(item)
	case sectionLastAccess:
		d.lastAccess(item)
	case sectionRatings:
		d.rating(item)
	}
}

func (d *learnerDecoder) interest(item string) {
	c, err := models.ParseCategory(item)
	if err != nil {
		d.skip("interest", item, err)
		return
	}
	d.learner.AddInterests(c)
}

func (d *learnerDecoder) progress(item string) {
	switch {
	case strings.HasPrefix(item, memberCourseID):
		d.courseID = value(item, memberCourseID)
	case strings.HasPrefix(item, memberProgress):
		if d.courseID == "" {
			return
		}
		raw := strings.TrimSpace(strings.ReplaceAll(value(item, memberProgress), "%", ""))
		pct, err := strconv.Atoi(raw)
		if err != nil {
			d.skip("progress", item, err)
			return
		}
		d.learner.Progress[d.courseID] = models.ClampProgress(pct)
	}
}

func (d *learnerDecoder) lastModule(item string) {
	switch {
	case strings.HasPrefix(item, memberCourseID):
		d.courseID = value(item, memberCourseID)
	case strings.HasPrefix(item, memberModule):
		if d.courseID == "" {
			return
		}
		if module := value(item, memberModule); module != "" {
			d.learner.LastModule[d.courseID] = module
		}
	}
}

func (d *learnerDecoder) lastAccess(item string) {
	switch {
	case strings.HasPrefix(item, memberCourseID):
		d.courseID = value(item, memberCourseID)
	case strings.HasPrefix(item, memberTime):
		if d.courseID == "" {
			return
		}
		at, err := ParseTime(value(item, memberTime))
		if err != nil {
			d.skip("access time", item, err)
			return
		}
		d.learner.LastAccess[d.courseID] = at
	}
}

func (d *learnerDecoder) rating(item string) {
	switch {
	case strings.HasPrefix(item, memberCourseID):
		d.flush()
		d.courseID = value(item, memberCourseID)
		d.inRatings = false
	case item == memberRatings:
		d.flush()
		d.inRatings = d.courseID != ""
	case !d.inRatings:
		return
	case strings.HasPrefix(item, memberRating):
		d.flush()
		v, err := strconv.Atoi(value(item, memberRating))
		if err != nil {
			d.skip("rating", item, err)
			return
		}
		if !ledger.ValidRating(v) {
			d.log.Warn().Int("line", d.line).Int("rating", v).Msg("rating out of range, skipping entry")
			return
		}
		d.pending = &entryBuilder{value: v}
	case strings.HasPrefix(item, memberReview):
		if d.pending != nil {
			d.pending.review = value(item, memberReview)
		}
	case strings.HasPrefix(item, memberDate):
		if d.pending == nil {
			return
		}
		at, err := ParseTime(value(item, memberDate))
		if err != nil {
			d.skip("rating date", item, err)
			return
		}
		d.pending.at = at
	}
}

// flush commits the open rating entry, if any.
func (d *learnerDecoder) flush() {
	if d.pending == nil {
		return
	}
	d.learner.AddRating(d.courseID, d.pending.build())
	d.pending = nil
}

func (d *learnerDecoder) skip(field, line string, err error) {
	d.log.Warn().
		Err(err).
		Int("line", d.line).
		Str("section", d.section.String()).
		Str("field", field).
		Str("text", line).
		Msg("skipping unparseable field")
}

// value returns the text after prefix, trimmed.
func value(line, prefix string) string {
	return strings.TrimSpace(strings.TrimPrefix(line, prefix))
}

// listedCourseID extracts the id from an "id - title" list member. Members
// whose id part contains spaces are not course entries and yield "".
func listedCourseID(item string) string {
	id, _, _ := strings.Cut(item, " - ")
	id = strings.TrimSpace(id)
	if strings.ContainsAny(id, " \t") {
		return ""
	}
	return id
}
