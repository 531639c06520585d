package uddf

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/langchou/divegazer/internal/importer"
	"github.com/langchou/divegazer/internal/models"
	"github.com/langchou/divegazer/internal/units"
)

// ParseError 整个文档不可用 (缺少根元素、XML 无法解析)
type ParseError struct {
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	return e.Message
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parser UDDF 解析器
type Parser struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewParser 创建解析器，logger 可为 nil
func NewParser(logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// site 潜点
type site struct {
	name string
	lat  float64
	lng  float64
}

// siteIndex 保留插入顺序的潜点表，同 id 后写覆盖
type siteIndex struct {
	order []string
	byID  map[string]site
}

func newSiteIndex() *siteIndex {
	return &siteIndex{byID: make(map[string]site)}
}

func (s *siteIndex) set(id string, v site) {
	if _, ok := s.byID[id]; !ok {
		s.order = append(s.order, id)
	}
	s.byID[id] = v
}

func (s *siteIndex) get(id string) (site, bool) {
	v, ok := s.byID[id]
	return v, ok
}

func (s *siteIndex) first() (site, bool) {
	if len(s.order) == 0 {
		return site{}, false
	}
	return s.byID[s.order[0]], true
}

func (s *siteIndex) len() int {
	return len(s.order)
}

// Parse 解析 UDDF 文档
func (p *Parser) Parse(data []byte) ([]models.Dive, error) {
	report, err := p.ParseReport(data)
	if err != nil {
		return nil, err
	}
	return report.Dives, nil
}

// ParseReport 解析并返回被跳过的记录
func (p *Parser) ParseReport(data []byte) (*importer.Report, error) {
	root, err := parseTree(data)
	if err != nil {
		if err == errNoRoot {
			return nil, &ParseError{Message: "Invalid UDDF file: missing uddf root element"}
		}
		return nil, &ParseError{Message: "Failed to parse UDDF file: " + err.Error(), Err: err}
	}
	if root.name != "uddf" {
		return nil, &ParseError{Message: "Invalid UDDF file: missing uddf root element"}
	}

	sites := collectSites(root)
	report := &importer.Report{Format: importer.FormatUDDF, Dives: []models.Dive{}}

	counter := 1
	for _, el := range root.path("profiledata", "repetitiongroup", "dive") {
		index := counter
		counter++

		dive, err := p.parseDive(el, int64(index), sites)
		if err != nil {
			p.logger.Warn("Failed to parse individual dive",
				zap.Int("dive", index),
				zap.String("dive_id", el.attr("id")),
				zap.Error(err),
			)
			report.Skipped = append(report.Skipped, &importer.RecordError{Index: index, Err: err})
			continue
		}
		if dive == nil {
			report.Discarded++
			continue
		}
		report.Dives = append(report.Dives, *dive)
	}

	p.logger.Debug("UDDF parsed",
		zap.Int("dives", len(report.Dives)),
		zap.Int("skipped", len(report.Skipped)),
		zap.Int("discarded", report.Discarded),
		zap.Int("sites", sites.len()),
	)

	return report, nil
}

// collectSites 顶层 divesite 与 divetrip/trippart/divesite 中的潜点
func collectSites(root *node) *siteIndex {
	sites := newSiteIndex()

	add := func(elements []*node) {
		for _, el := range elements {
			id := el.attr("id")
			if id == "" {
				continue
			}
			s := site{}
			s.name, _ = el.textOf("name")
			for _, geo := range el.all("geography") {
				if v, ok, err := geo.floatOf("latitude"); ok && err == nil {
					s.lat = v
				}
				if v, ok, err := geo.floatOf("longitude"); ok && err == nil {
					s.lng = v
				}
			}
			sites.set(id, s)
		}
	}

	add(root.path("divesite", "site"))
	add(root.path("divetrip", "trippart", "divesite", "site"))

	return sites
}

// parseDive 返回 nil, nil 表示空记录被丢弃
func (p *Parser) parseDive(el *node, id int64, sites *siteIndex) (*models.Dive, error) {
	before := el.first("informationbeforedive")
	after := el.first("informationafterdive")

	dive := &models.Dive{
		ID:       id,
		DateTime: p.parseDate(before),
		Location: models.UnknownLocation,
	}

	depth, _, err := after.floatOf("greatestdepth")
	if err != nil {
		return nil, err
	}
	seconds, _, err := after.floatOf("diveduration")
	if err != nil {
		return nil, err
	}
	if depth < 0 || seconds < 0 {
		return nil, fmt.Errorf("negative depth or duration")
	}

	dive.Depth = units.RoundTo(depth, 1)
	dive.Duration = int(math.Round(seconds / 60))

	if !dive.Valid() {
		return nil, nil
	}

	if buddy := buddyName(after); buddy != "" {
		dive.Buddy = &buddy
	}

	resolveSite(dive, before, sites)

	dive.Samples = parseSamples(el)

	return dive, nil
}

// parseDate 缺失或无法解析时回退为当前时间
func (p *Parser) parseDate(before *node) time.Time {
	raw, ok := before.textOf("datetime")
	if !ok {
		return p.now()
	}
	t, err := importer.ParseDateTime(raw)
	if err != nil {
		p.logger.Debug("Invalid UDDF datetime, using current time", zap.String("datetime", raw))
		return p.now()
	}
	return t
}

func buddyName(after *node) string {
	buddies := after.all("buddy")
	if len(buddies) == 0 {
		return ""
	}
	personal := buddies[0].first("personal")
	first, _ := personal.textOf("firstname")
	last, _ := personal.textOf("lastname")
	return strings.TrimSpace(first + " " + last)
}

// resolveSite 优先使用 link 引用的潜点，否则回退到第一个潜点
func resolveSite(dive *models.Dive, before *node, sites *siteIndex) {
	for _, link := range before.all("link") {
		ref := link.attr("ref")
		if ref == "" {
			continue
		}
		if s, ok := sites.get(ref); ok {
			dive.Location = s.name
			if dive.Location == "" {
				dive.Location = "Site " + ref
			}
			dive.Lat, dive.Lng = s.lat, s.lng
			return
		}
	}

	if s, ok := sites.first(); ok {
		if s.name != "" {
			dive.Location = s.name
		}
		dive.Lat, dive.Lng = s.lat, s.lng
	}
}

// parseSamples 只保留 divetime 与 depth 均为数值的 waypoint，按时间升序
// 温度/气压非数值时视为缺失
func parseSamples(el *node) []models.DiveSample {
	var samples []models.DiveSample

	for _, wp := range el.path("samples", "waypoint") {
		t, hasTime := wp.optionalFloat("divetime")
		d, hasDepth := wp.optionalFloat("depth")
		if !hasTime || !hasDepth {
			continue
		}

		sample := models.DiveSample{
			Time:  int(math.Round(t)),
			Depth: d,
		}
		if v, ok := wp.optionalFloat("temperature"); ok {
			sample.Temperature = &v
		}
		if v, ok := wp.optionalFloat("tankpressure"); ok {
			sample.Pressure = &v
		}
		samples = append(samples, sample)
	}

	if len(samples) == 0 {
		return nil
	}

	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].Time < samples[j].Time
	})
	return samples
}
