package prompts

// Templates use Go template syntax. Structured values are passed as JSON.
var (
	ParseRequest = `
You are an intelligent AI who turns user requests into structured objectives.

Request:
"{{.request}}"

Respond only with a json object matching this schema:
{
    "goal": "{PRIMARY_OBJECTIVE}",
    "subtasks": ["{SUBTASK}"],
    "constraints": ["{CONSTRAINT}"],
    "context": {"{KEY}": "{ADDITIONAL_PARAMETER}"},
    "metadata": {"{KEY}": "{ADDITIONAL_METADATA}"}
}
`

	GeneratePlan = `
Generate a plan to fulfill the following request using only the available actions.
Each step must use a valid action and specify how its inputs map to previous outputs.

Request Goal: {{.goal}}
Subtasks: {{.subtasks}}
Constraints: {{.constraints}}
Context: {{.context}}

Available Actions:
{{.actions}}

Respond only with a json object matching this schema:
{
    "goal": "{ORIGINAL_GOAL}",
    "steps": [
        {
            "action": {"name": "{ACTION_NAME}", "inputs": {"{INPUT}": "{VALUE}"}},
            "description": "{WHAT_THIS_STEP_DOES}",
            "input_mapping": {"{INPUT}": "{OUTPUT_KEY_OF_A_PREVIOUS_STEP}"},
            "output_key": "{KEY_TO_STORE_THIS_OUTPUT_UNDER}"
        }
    ]
}
`

	SummarizeResults = `
Summarize the results of executing this plan:

Goal: {{.goal}}

Outputs:
{{.outputs}}
`

	PlannerNewPlan = `
Given the question: {{.question}}
What is the plan (sequence of steps with thought and action) to solve the question? Feel free to use placeholders if it depends on results from previous steps. Only use the available actions.
The final step's action must be FinalAnswer.

Available actions:
{{.actions}}

Respond only with a json object matching this schema:
{
    "thought": "{OVERALL_REASONING}",
    "steps": [
        {"summary": "{SHORT_SUMMARY}", "thought": "{REASONING}", "action": {"name": "{ACTION_NAME}", "inputs": {"{INPUT}": "{VALUE}"}}}
    ]
}
`

	PlannerRevisePlan = `
Given the question: {{.question}}
The previous plan was:
{{.current_plan}}
The user provided the following feedback for modification: {{.feedback}}
Generate a revised plan (sequence of steps with thought and action) based on the feedback. Only use the available actions.
The final step's action must be FinalAnswer.

Available actions:
{{.actions}}

Respond only with a json object matching this schema:
{
    "thought": "{OVERALL_REASONING}",
    "steps": [
        {"summary": "{SHORT_SUMMARY}", "thought": "{REASONING}", "action": {"name": "{ACTION_NAME}", "inputs": {"{INPUT}": "{VALUE}"}}}
    ]
}
`

	PlannerNextStep = `
Given the question: {{.question}}
Past steps: {{.past_steps}}

What is the next step (thought and action) that may get us closer to the solution?
The action must be one of the available actions. Use FinalAnswer when the answer is found.

Available actions:
{{.actions}}

Respond only with a json object matching this schema:
{"summary": "{SHORT_SUMMARY}", "thought": "{REASONING}", "action": {"name": "{ACTION_NAME}", "inputs": {"{INPUT}": "{VALUE}"}}}
`

	AskQuery = `{{.query}}`

	PerplexitySystem = "You are an AI assistant accessing up-to-date information. " +
		"Provide concise and accurate answers based on your online search capabilities."

	TransformCode = "Transform the following code according to these rules:\n" +
		"Type: {{.transformation_type}}\n" +
		"Parameters: {{.parameters}}\n\n" +
		"Original Code:\n```go\n{{.code}}\n```\n\n" +
		"Return only the transformed code, maintaining correct Go syntax."

	GenerateTests = "Generate {{.test_framework}} tests for the following code.\n" +
		"Generate tests for: {{.coverage_targets}}\n\n" +
		"Code to test:\n```go\n{{.code}}\n```\n\n" +
		"Return only the test code, following {{.test_framework}} conventions.\n" +
		"Include the package clause, necessary imports and test functions."

	OptimizeCode = "Optimize the following code for {{.optimization_goals}}.\n" +
		"Apply these constraints: {{.constraints}}\n\n" +
		"Original Code:\n```go\n{{.code}}\n```\n\n" +
		"Respond only with a json object with:\n" +
		"- optimized_code: The optimized code\n" +
		"- changes: List of changes made\n" +
		"- metrics: Relevant metrics"

	GenerateDocumentation = "Generate {{.doc_format}} style documentation for this code.\n" +
		"Include documentation for: {{.doc_sections}}\n\n" +
		"Code to document:\n```go\n{{.code}}\n```\n\n" +
		"Return the code with added documentation comments.\n" +
		"Follow {{.doc_format}} style guidelines strictly."

	StructureDocument = `
instruction: {{.instruction}}

input_content: {{.input}}

Respond only with a json object matching this schema:
{
    "message_tasks": [
        {
            "day_index": 0,
            "send_time": "{HH:MM}",
            "audience_filter": [{"operator": "lt|not_in", "value": "{VALUE}"}],
            "message_type": "text|image|video|voice",
            "message_content": 0
        }
    ]
}
`
)
