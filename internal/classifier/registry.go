package classifier

import "github.com/vraravam/api-governance-agent/pkg/models"

// DefaultRegistry returns the built-in category registry, ordered by
// fix priority. OTHER is the catch-all and always sorts last.
func DefaultRegistry() []models.Category {
	return []models.Category{
		{
			Name:        "RESOURCE_NAMING",
			DisplayName: "Resource Naming",
			Description: "URL structure, resource pluralization, and path casing",
			Priority:    1,
			Effort:      "Low",
			Rules: models.RuleSet(
				"plural-resources",
				"kebab-case-paths",
				"no-verbs-in-url",
				"pluralResourceNaming",
				"noVerbsInMapping",
				"requestMappingsKebabCase",
				"path-version-prefix",
				"versionedApiPaths",
			),
		},
		{
			Name:        "ARCHITECTURE",
			DisplayName: "Architecture",
			Description: "Layering, package dependencies, and component placement",
			Priority:    2,
			Effort:      "High",
			Rules: models.RuleSet(
				"architecture-layered",
				"architecture-persistence-no-web",
				"dependency-controller-no-repository",
				"dependency-domain-independence",
				"dependency-no-upper-packages",
				"naming-service-package",
				"arch-layered-architecture",
				"arch-no-cycles",
				"arch-naming-convention",
				"controllersInCorrectPackage",
				"controllerNamingConvention",
				"classLevelRequestMapping",
				"repositoryAccessThroughService",
				"domainLayerIndependence",
				"architecture-transactional-services",
				"serviceMethodsAreTransactional",
			),
		},
		{
			Name:        "CODE_QUALITY",
			DisplayName: "Code Quality",
			Description: "Logging discipline, exception handling, and injection style",
			Priority:    3,
			Effort:      "Medium",
			Rules: models.RuleSet(
				"coding-no-std-streams",
				"coding-no-generic-exceptions",
				"coding-no-field-injection",
				"coding-no-java-util-logging",
				"no-sysout",
				"no-generic-exceptions",
				"proper-logging",
				"no-empty-catch",
				"no-java-util-logging",
				"constructor-injection-over-field",
				"coding-serial-version-uid",
				"serializableDeclaresSerialVersionUID",
			),
		},
		{
			Name:        "SECURITY",
			DisplayName: "Security",
			Description: "Authentication requirements and credential hygiene",
			Priority:    4,
			Effort:      "High",
			Rules: models.RuleSet(
				"no-api-keys-in-url",
				"require-authentication",
				"security-definitions-required",
				"no-hardcoded-credentials",
				"security-no-insecure-random",
				"useSecureRandom",
			),
		},
		{
			Name:        "DATA_TYPES",
			DisplayName: "Data Types",
			Description: "Identifier formats, field casing, and value representations",
			Priority:    5,
			Effort:      "Medium",
			Rules: models.RuleSet(
				"uuid-resource-ids",
				"request-fields-camelcase",
				"response-fields-camelcase",
				"datetime-iso8601",
				"currency-code-iso4217",
				"pathVariablesShouldBeUUID",
				"requestParamsCamelCase",
				"camel-case-properties",
				"propertyNamesCamelCase",
			),
		},
		{
			Name:        "HTTP_SEMANTICS",
			DisplayName: "HTTP Semantics",
			Description: "Status codes and request body usage per method",
			Priority:    6,
			Effort:      "Low",
			Rules: models.RuleSet(
				"post-create-returns-201",
				"put-returns-200-or-204",
				"delete-returns-204-or-200",
				"get-no-request-body",
				"delete-no-request-body",
				"postMethodsShouldReturn201",
				"getMethodsNoRequestBody",
			),
		},
		{
			Name:        "PAGINATION",
			DisplayName: "Pagination",
			Description: "Collection paging parameters and response shape",
			Priority:    7,
			Effort:      "Medium",
			Rules: models.RuleSet(
				"pagination-parameter-naming",
				"pagination-response-structure",
				"paginatedEndpointsUsePageable",
				"pagination-response-check",
			),
		},
		{
			Name:        "RESPONSE_STRUCTURE",
			DisplayName: "Response Structure",
			Description: "Envelope format, field pluralization, and nesting depth",
			Priority:    8,
			Effort:      "Medium",
			Rules: models.RuleSet(
				"response-envelope",
				"array-fields-plural",
				"nested-resources-depth",
				"controllerMethodsReturnProperTypes",
				"operation-error-response",
				"standardErrorResponses",
			),
		},
		{
			Name:        "DOCUMENTATION",
			DisplayName: "Documentation",
			Description: "Descriptions on operations, schemas, parameters, and tags",
			Priority:    9,
			Effort:      "Low",
			Rules: models.RuleSet(
				"operation-description-required",
				"schema-description-required",
				"parameter-description-required",
				"tag-description-required",
			),
		},
		{
			Name:        "OTHER",
			DisplayName: "Other",
			Description: "Findings not owned by any named category",
			Priority:    10,
			Effort:      "Unknown",
			Rules:       models.RuleSet(),
		},
	}
}

// DefaultSubcategories returns per-rule detail used in triage reports.
// Not every rule has an entry; unlisted rules fall back to category
// level reporting.
func DefaultSubcategories() []models.Subcategory {
	return []models.Subcategory{
		{
			Name:          "plural_resources",
			DisplayName:   "Plural resource names",
			RuleID:        "plural-resources",
			Category:      "RESOURCE_NAMING",
			FixComplexity: models.ComplexitySimple,
			Description:   "Collection path segments must be plural nouns",
			Example:       "/user/{id} should be /users/{id}",
		},
		{
			Name:          "kebab_case_paths",
			DisplayName:   "Kebab-case paths",
			RuleID:        "kebab-case-paths",
			Category:      "RESOURCE_NAMING",
			FixComplexity: models.ComplexitySimple,
			Description:   "Path segments use kebab-case, not camelCase or snake_case",
			Example:       "/orderItems should be /order-items",
		},
		{
			Name:          "no_verbs_in_url",
			DisplayName:   "No verbs in URLs",
			RuleID:        "no-verbs-in-url",
			Category:      "RESOURCE_NAMING",
			FixComplexity: models.ComplexityModerate,
			Description:   "HTTP method carries the action, the path names the resource",
			Example:       "POST /orders/create should be POST /orders",
		},
		{
			Name:          "layered_architecture",
			DisplayName:   "Layered architecture",
			RuleID:        "arch-layered-architecture",
			Category:      "ARCHITECTURE",
			FixComplexity: models.ComplexityComplex,
			Description:   "Controllers call services, services call repositories",
		},
		{
			Name:          "controller_no_repository",
			DisplayName:   "Controllers must not touch repositories",
			RuleID:        "repositoryAccessThroughService",
			Category:      "ARCHITECTURE",
			FixComplexity: models.ComplexityComplex,
			Description:   "Repository access goes through a service layer",
		},
		{
			Name:          "no_sysout",
			DisplayName:   "No standard stream output",
			RuleID:        "no-sysout",
			Category:      "CODE_QUALITY",
			FixComplexity: models.ComplexitySimple,
			Description:   "Use a logger instead of System.out or System.err",
			Example:       "System.out.println(x) should be log.info(...)",
		},
		{
			Name:          "no_generic_exceptions",
			DisplayName:   "No generic exceptions",
			RuleID:        "no-generic-exceptions",
			Category:      "CODE_QUALITY",
			FixComplexity: models.ComplexityModerate,
			Description:   "Throw specific exception types, not Exception or RuntimeException",
		},
		{
			Name:          "constructor_injection",
			DisplayName:   "Constructor injection",
			RuleID:        "constructor-injection-over-field",
			Category:      "CODE_QUALITY",
			FixComplexity: models.ComplexityModerate,
			Description:   "Inject dependencies through constructors, not @Autowired fields",
		},
		{
			Name:          "require_authentication",
			DisplayName:   "Authentication required",
			RuleID:        "require-authentication",
			Category:      "SECURITY",
			FixComplexity: models.ComplexityComplex,
			Description:   "Every operation declares a security requirement",
		},
		{
			Name:          "no_hardcoded_credentials",
			DisplayName:   "No hardcoded credentials",
			RuleID:        "no-hardcoded-credentials",
			Category:      "SECURITY",
			FixComplexity: models.ComplexityModerate,
			Description:   "Secrets come from configuration, never source",
		},
		{
			Name:          "uuid_resource_ids",
			DisplayName:   "UUID resource identifiers",
			RuleID:        "uuid-resource-ids",
			Category:      "DATA_TYPES",
			FixComplexity: models.ComplexitySimple,
			Description:   "Path id parameters use format: uuid",
		},
		{
			Name:          "post_create_201",
			DisplayName:   "POST create returns 201",
			RuleID:        "post-create-returns-201",
			Category:      "HTTP_SEMANTICS",
			FixComplexity: models.ComplexitySimple,
			Description:   "Creation endpoints respond with 201, not 200",
		},
		{
			Name:          "pagination_parameters",
			DisplayName:   "Pagination parameter naming",
			RuleID:        "pagination-parameter-naming",
			Category:      "PAGINATION",
			FixComplexity: models.ComplexityModerate,
			Description:   "Collections accept page and size query parameters",
		},
		{
			Name:          "response_envelope",
			DisplayName:   "Response envelope",
			RuleID:        "response-envelope",
			Category:      "RESPONSE_STRUCTURE",
			FixComplexity: models.ComplexityModerate,
			Description:   "Responses wrap payloads in a data envelope",
		},
		{
			Name:          "operation_descriptions",
			DisplayName:   "Operation descriptions",
			RuleID:        "operation-description-required",
			Category:      "DOCUMENTATION",
			FixComplexity: models.ComplexitySimple,
			Description:   "Every operation carries a description",
		},
	}
}
