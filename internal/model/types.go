package model

// DefaultTypes is the built-in credential type list. A type is "default"
// purely by membership in this list; the flag is never persisted.
var DefaultTypes = []string{
	"openAiApi", "githubApi", "slackApi", "googleSheetsApi", "httpBasicAuth", "httpHeaderAuth", "oAuth2Api",
	"awsApi", "azureApi", "gcpApi", "postgresApi", "mysqlApi", "mongoDbApi", "discordApi", "microsoftOAuth2Api",
	"dropboxApi", "jiraApi", "notionApi", "twilioApi", "smtp", "imap", "webhookAuth", "shopifyApi", "stripeApi",
	"sendgridApi", "zoomApi", "zendeskApi", "mondayComApi", "asanaApi", "trelloApi", "bitbucketApi", "gitlabApi",
	"cloudflareApi", "mailgunApi", "redisApi", "redisClusterApi", "mariadbApi", "mssqlApi", "sftp", "ftp", "s3",
	"googleDriveApi", "microsoftTeamsApi", "microsoftGraphApi", "microsoftOneDriveApi", "microsoftSharepointApi",
	"microsoftOutlookApi", "microsoftExcelApi", "microsoftWordApi", "microsoftPowerpointApi", "microsoftOnenoteApi",
	"microsoftToDoApi", "microsoftPlannerApi", "microsoftBookingsApi", "microsoftFormsApi", "microsoftListsApi",
	"microsoftStreamApi", "microsoftWhiteboardApi", "microsoftYammerApi", "microsoftKaizalaApi", "microsoftPowerAppsApi",
	"microsoftPowerAutomateApi", "microsoftPowerBiApi", "microsoftProjectApi", "microsoftVisioApi", "microsoftDynamics365Api",
	"microsoftIntuneApi", "microsoftSecurityApi", "microsoftComplianceApi", "microsoftDefenderApi", "microsoftPurviewApi",
	"microsoftVivaApi", "microsoftLoopApi", "microsoftMeshApi", "microsoftCopilotApi", "microsoft365Api", "microsoft365AdminApi",
	"microsoft365ComplianceApi", "microsoft365DefenderApi", "microsoft365SecurityApi", "microsoft365PurviewApi", "microsoft365VivaApi",
	"microsoft365LoopApi", "microsoft365MeshApi", "microsoft365CopilotApi", "microsoft365BookingsApi", "microsoft365FormsApi",
	"microsoft365ListsApi", "microsoft365StreamApi", "microsoft365WhiteboardApi", "microsoft365YammerApi", "microsoft365KaizalaApi",
	"microsoft365PowerAppsApi", "microsoft365PowerAutomateApi", "microsoft365PowerBiApi", "microsoft365ProjectApi", "microsoft365VisioApi",
	"microsoft365Dynamics365Api", "microsoft365IntuneApi",
}

// DefaultTypeList returns a fresh copy of DefaultTypes that callers may mutate.
func DefaultTypeList() []string {
	out := make([]string, len(DefaultTypes))
	copy(out, DefaultTypes)
	return out
}

// IsDefaultType reports whether t is one of the built-in types.
// Matching is exact and case-sensitive.
func IsDefaultType(t string) bool {
	for _, d := range DefaultTypes {
		if d == t {
			return true
		}
	}
	return false
}
