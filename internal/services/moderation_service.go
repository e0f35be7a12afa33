package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/swapcircle/swapcircle-api/internal/dto"
	"github.com/swapcircle/swapcircle-api/internal/models"
	"github.com/swapcircle/swapcircle-api/internal/store"
)

var (
	ErrContentRejected = errors.New("content rejected")
	ErrBlockNotFound   = errors.New("block not found")
	ErrAlreadyBlocked  = errors.New("user already blocked")
	ErrSelfBlock       = errors.New("cannot block yourself")
)

var bannedWords = []string{
	"fuck", "fucking", "fucker", "shit", "shitty", "bullshit",
	"ass", "asshole", "bastard", "bitch", "cunt",
	"nigger", "nigga", "chink", "spic", "kike", "faggot", "fag",
	"retard", "retarded", "tranny",
	"porn", "porno", "nude", "nudes",
	"scam", "scammer", "phishing", "malware",
}

// ModerationService screens user-authored text (message bodies, listing
// titles and descriptions) and records community reports and blocks.
type ModerationService struct {
	moderation store.ModerationStore

	bannedWordRegexps   []*regexp.Regexp
	urlPattern          *regexp.Regexp
	emailPattern        *regexp.Regexp
	phonePattern        *regexp.Regexp
	repeatedCharPattern *regexp.Regexp
	allCapsPattern      *regexp.Regexp
}

func NewModerationService(moderation store.ModerationStore) *ModerationService {
	ms := &ModerationService{moderation: moderation}
	ms.compilePatterns()
	return ms
}

func (ms *ModerationService) compilePatterns() {
	ms.bannedWordRegexps = make([]*regexp.Regexp, 0, len(bannedWords))
	for _, word := range bannedWords {
		pattern := `(?i)\b` + regexp.QuoteMeta(word) + `\b`
		re, err := regexp.Compile(pattern)
		if err == nil {
			ms.bannedWordRegexps = append(ms.bannedWordRegexps, re)
		}
	}

	ms.urlPattern = regexp.MustCompile(`(?i)(https?://\S+|www\.\S+\.\S+)`)
	ms.emailPattern = regexp.MustCompile(`(?i)\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)
	ms.phonePattern = regexp.MustCompile(`\d{3}[-.\s]?\d{3}[-.\s]?\d{4}|\(\d{3}\)\s*\d{3}[-.\s]?\d{4}`)
	ms.repeatedCharPattern = regexp.MustCompile(`(?i)(a{4,}|b{4,}|c{4,}|d{4,}|e{4,}|f{4,}|g{4,}|h{4,}|i{4,}|j{4,}|k{4,}|l{4,}|m{4,}|n{4,}|o{4,}|p{4,}|q{4,}|r{4,}|s{4,}|t{4,}|u{4,}|v{4,}|w{4,}|x{4,}|y{4,}|z{4,}|!{4,}|\?{4,}|\.{4,})`)
	ms.allCapsPattern = regexp.MustCompile(`[A-Z]{5,}`)
}

// CheckContent screens each text and reports the first violation. Message
// bodies additionally reject URLs and contact info; listing text does not,
// so sellers can describe pickup logistics.
func (ms *ModerationService) CheckContent(strict bool, texts ...string) error {
	for _, text := range texts {
		if reason := ms.screen(text, strict); reason != "" {
			return fmt.Errorf("%w: %s", ErrContentRejected, rejectionMessage(reason))
		}
	}
	return nil
}

func (ms *ModerationService) screen(text string, strict bool) string {
	if text == "" {
		return ""
	}
	for _, re := range ms.bannedWordRegexps {
		if re.MatchString(text) {
			return "inappropriate_language"
		}
	}
	if strict {
		if ms.urlPattern.MatchString(text) {
			return "url_not_allowed"
		}
		if ms.emailPattern.MatchString(text) || ms.phonePattern.MatchString(text) {
			return "contact_info_not_allowed"
		}
	}
	if ms.repeatedCharPattern.MatchString(text) {
		return "spam_detected"
	}
	if len(ms.allCapsPattern.FindAllString(text, -1)) > 2 {
		return "excessive_caps"
	}
	return ""
}

func rejectionMessage(reason string) string {
	messages := map[string]string{
		"inappropriate_language":   "your content contains inappropriate language",
		"url_not_allowed":          "URLs and web links are not allowed",
		"contact_info_not_allowed": "contact information is not allowed",
		"spam_detected":            "your content appears to be spam",
		"excessive_caps":           "please avoid using excessive capital letters",
	}
	if msg, ok := messages[reason]; ok {
		return msg
	}
	return "your content does not meet our community guidelines"
}

func (ms *ModerationService) CreateReport(reporterID string, req *dto.CreateReportRequest) (*models.Report, error) {
	if strings.TrimSpace(req.Reason) == "" {
		return nil, fmt.Errorf("%w: reason is required", ErrContentRejected)
	}

	report := &models.Report{
		ID:          uuid.New(),
		ReporterID:  reporterID,
		ContentType: req.ContentType,
		ContentID:   req.ContentID,
		Reason:      req.Reason,
		Status:      "pending",
	}
	if err := ms.moderation.CreateReport(report); err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}
	return report, nil
}

func (ms *ModerationService) BlockUser(blockerID, blockedID string) (*models.Block, error) {
	if blockerID == blockedID {
		return nil, ErrSelfBlock
	}

	exists, err := ms.moderation.BlockExists(blockerID, blockedID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing block: %w", err)
	}
	if exists {
		return nil, ErrAlreadyBlocked
	}

	block := &models.Block{
		ID:        uuid.New(),
		BlockerID: blockerID,
		BlockedID: blockedID,
	}
	if err := ms.moderation.CreateBlock(block); err != nil {
		return nil, fmt.Errorf("failed to create block: %w", err)
	}
	return block, nil
}

// InteractionBlocked reports whether either user has blocked the other.
func (ms *ModerationService) InteractionBlocked(userA, userB string) (bool, error) {
	for _, pair := range [][2]string{{userA, userB}, {userB, userA}} {
		exists, err := ms.moderation.BlockExists(pair[0], pair[1])
		if err != nil {
			return false, fmt.Errorf("failed to check block: %w", err)
		}
		if exists {
			return true, nil
		}
	}
	return false, nil
}

func (ms *ModerationService) UnblockUser(blockID uuid.UUID, blockerID string) error {
	if err := ms.moderation.DeleteBlock(blockID, blockerID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrBlockNotFound
		}
		return fmt.Errorf("failed to delete block: %w", err)
	}
	return nil
}
