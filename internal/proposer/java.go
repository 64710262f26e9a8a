package proposer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vraravam/api-governance-agent/pkg/models"
)

var (
	sysoutRe    = regexp.MustCompile(`\bSystem\.out\.print(?:ln|f)?\(`)
	syserrRe    = regexp.MustCompile(`\bSystem\.err\.print(?:ln|f)?\(`)
	classDeclRe = regexp.MustCompile(`(?m)^(\s*)(?:public\s+|final\s+|abstract\s+)*class\s+(\w+)[^{]*\{`)
	packageRe   = regexp.MustCompile(`(?m)^package\s+[\w.]+;\n`)
	julImportRe = regexp.MustCompile(`(?m)^import\s+java\.util\.logging\.[\w*]+;\n`)
	julLoggerRe = regexp.MustCompile(`Logger\.getLogger\(.*\)`)
)

// NoStdStreams replaces System.out and System.err calls with SLF4J
// logger calls, declaring the logger when the class has none.
type NoStdStreams struct{}

func (s *NoStdStreams) Rules() []string {
	return []string{"no-sysout", "coding-no-std-streams"}
}

func (s *NoStdStreams) Info() models.StrategyInfo {
	return models.StrategyInfo{
		RuleID:      "no-sysout",
		Description: "Replace standard stream output with SLF4J logging",
		Complexity:  models.ComplexitySimple,
		Safety:      models.SafetyAuto,
		Explanation: "System.out and System.err bypass the logging pipeline",
	}
}

func (s *NoStdStreams) Apply(path, content string, violations []models.Violation) (string, error) {
	if !sysoutRe.MatchString(content) && !syserrRe.MatchString(content) {
		return "", fmt.Errorf("no standard stream calls found in %s", path)
	}

	fixed := sysoutRe.ReplaceAllString(content, "log.info(")
	fixed = syserrRe.ReplaceAllString(fixed, "log.error(")
	return ensureSLF4J(fixed), nil
}

// NoJavaUtilLogging migrates java.util.logging usage to SLF4J.
type NoJavaUtilLogging struct{}

func (s *NoJavaUtilLogging) Rules() []string {
	return []string{"no-java-util-logging", "coding-no-java-util-logging"}
}

func (s *NoJavaUtilLogging) Info() models.StrategyInfo {
	return models.StrategyInfo{
		RuleID:      "no-java-util-logging",
		Description: "Migrate java.util.logging to SLF4J",
		Complexity:  models.ComplexityModerate,
		Safety:      models.SafetyAuto,
		Explanation: "java.util.logging bypasses the configured SLF4J backend",
	}
}

func (s *NoJavaUtilLogging) Apply(path, content string, violations []models.Violation) (string, error) {
	if !julImportRe.MatchString(content) && !julLoggerRe.MatchString(content) {
		return "", fmt.Errorf("no java.util.logging usage found in %s", path)
	}

	fixed := julImportRe.ReplaceAllString(content, "")
	fixed = julLoggerRe.ReplaceAllString(fixed, "LoggerFactory.getLogger("+className(fixed)+".class)")

	// JUL levels map onto SLF4J methods.
	replacements := [][2]string{
		{".severe(", ".error("},
		{".warning(", ".warn("},
		{".fine(", ".debug("},
		{".finer(", ".trace("},
		{".finest(", ".trace("},
	}
	for _, r := range replacements {
		fixed = strings.ReplaceAll(fixed, r[0], r[1])
	}
	return ensureSLF4J(fixed), nil
}

// ensureSLF4J adds the SLF4J imports and a logger field when the file
// references log.* calls without declaring them.
func ensureSLF4J(content string) string {
	if !strings.Contains(content, "log.info(") &&
		!strings.Contains(content, "log.error(") &&
		!strings.Contains(content, "log.warn(") &&
		!strings.Contains(content, "log.debug(") &&
		!strings.Contains(content, "LoggerFactory.getLogger(") {
		return content
	}

	if !strings.Contains(content, "import org.slf4j.Logger;") {
		imports := "import org.slf4j.Logger;\nimport org.slf4j.LoggerFactory;\n"
		if loc := packageRe.FindStringIndex(content); loc != nil {
			content = content[:loc[1]] + "\n" + imports + content[loc[1]:]
		} else {
			content = imports + content
		}
	}

	if !strings.Contains(content, "private static final Logger log") &&
		!strings.Contains(content, "private final Logger log") {
		if m := classDeclRe.FindStringSubmatchIndex(content); m != nil {
			indent := content[m[2]:m[3]]
			name := content[m[4]:m[5]]
			field := fmt.Sprintf("\n%s    private static final Logger log = LoggerFactory.getLogger(%s.class);\n", indent, name)
			content = content[:m[1]] + field + content[m[1]:]
		}
	}
	return content
}

// className extracts the first declared class name, defaulting to the
// JUL idiom's placeholder when none is found.
func className(content string) string {
	if m := classDeclRe.FindStringSubmatch(content); m != nil {
		return m[2]
	}
	return "Application"
}

// ensureImport inserts the import after the package declaration unless
// it is already present.
func ensureImport(content, imp string) string {
	if strings.Contains(content, imp) {
		return content
	}
	if loc := packageRe.FindStringIndex(content); loc != nil {
		return content[:loc[1]] + "\n" + imp + "\n" + content[loc[1]:]
	}
	return imp + "\n" + content
}

var (
	randomNewRe    = regexp.MustCompile(`\bnew\s+Random\(`)
	randomImportRe = regexp.MustCompile(`(?m)^import\s+java\.util\.Random;\n`)
)

// SecureRandomSource swaps java.util.Random for SecureRandom.
type SecureRandomSource struct{}

func (s *SecureRandomSource) Rules() []string {
	return []string{"security-no-insecure-random", "useSecureRandom"}
}

func (s *SecureRandomSource) Info() models.StrategyInfo {
	return models.StrategyInfo{
		RuleID:      "security-no-insecure-random",
		Description: "Replace java.util.Random with SecureRandom",
		Complexity:  models.ComplexitySimple,
		Safety:      models.SafetyAuto,
		Explanation: "java.util.Random is predictable and unsuitable for anything security-adjacent",
	}
}

func (s *SecureRandomSource) Apply(path, content string, violations []models.Violation) (string, error) {
	if !randomNewRe.MatchString(content) {
		return "", fmt.Errorf("no java.util.Random construction found in %s", path)
	}
	fixed := randomNewRe.ReplaceAllString(content, "new SecureRandom(")
	fixed = randomImportRe.ReplaceAllString(fixed, "")
	return ensureImport(fixed, "import java.security.SecureRandom;"), nil
}

// SerialVersionUID declares a serialVersionUID on Serializable classes
// that lack one.
type SerialVersionUID struct{}

func (s *SerialVersionUID) Rules() []string {
	return []string{"coding-serial-version-uid", "serializableDeclaresSerialVersionUID"}
}

func (s *SerialVersionUID) Info() models.StrategyInfo {
	return models.StrategyInfo{
		RuleID:      "coding-serial-version-uid",
		Description: "Declare serialVersionUID on Serializable classes",
		Complexity:  models.ComplexitySimple,
		Safety:      models.SafetyAuto,
		Explanation: "An explicit serialVersionUID keeps serialized forms stable across compilers",
	}
}

func (s *SerialVersionUID) Apply(path, content string, violations []models.Violation) (string, error) {
	if !strings.Contains(content, "Serializable") {
		return "", fmt.Errorf("%s does not implement Serializable", path)
	}
	if strings.Contains(content, "serialVersionUID") {
		return "", fmt.Errorf("%s already declares serialVersionUID", path)
	}
	m := classDeclRe.FindStringSubmatchIndex(content)
	if m == nil {
		return "", fmt.Errorf("no class declaration found in %s", path)
	}
	indent := content[m[2]:m[3]]
	field := fmt.Sprintf("\n%s    private static final long serialVersionUID = 1L;\n", indent)
	return content[:m[1]] + field + content[m[1]:], nil
}

// TransactionalServices puts a class-level @Transactional on service
// classes that mutate state without declaring a transaction boundary.
type TransactionalServices struct{}

func (s *TransactionalServices) Rules() []string {
	return []string{"architecture-transactional-services", "serviceMethodsAreTransactional"}
}

func (s *TransactionalServices) Info() models.StrategyInfo {
	return models.StrategyInfo{
		RuleID:      "architecture-transactional-services",
		Description: "Annotate service classes with @Transactional",
		Complexity:  models.ComplexityModerate,
		Safety:      models.SafetyReview,
		Explanation: "A class-level boundary is the conservative default; narrow it per method if needed",
	}
}

func (s *TransactionalServices) Apply(path, content string, violations []models.Violation) (string, error) {
	if strings.Contains(content, "@Transactional") {
		return "", fmt.Errorf("%s already declares @Transactional", path)
	}
	m := classDeclRe.FindStringSubmatchIndex(content)
	if m == nil {
		return "", fmt.Errorf("no class declaration found in %s", path)
	}
	indent := content[m[2]:m[3]]
	fixed := content[:m[0]] + indent + "@Transactional\n" + content[m[0]:]
	return ensureImport(fixed, "import org.springframework.transaction.annotation.Transactional;"), nil
}
