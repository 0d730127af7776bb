package models

import "offsetsdb/internal/query"

// Attribute registries for each queryable entity, built once at startup.
// Columns are table-qualified because listing queries join entities.

var Projects = query.NewEntity("project", "project", "project_id", map[string]query.Attribute{
	"project_id":    {Column: "project.project_id", Kind: query.KindText},
	"name":          {Column: "project.name", Kind: query.KindText},
	"registry":      {Column: "project.registry", Kind: query.KindText},
	"proponent":     {Column: "project.proponent", Kind: query.KindText},
	"protocol":      {Column: "project.protocol", Kind: query.KindTextArray},
	"category":      {Column: "project.category", Kind: query.KindTextArray},
	"status":        {Column: "project.status", Kind: query.KindText},
	"country":       {Column: "project.country", Kind: query.KindText},
	"listed_at":     {Column: "project.listed_at", Kind: query.KindDate},
	"is_compliance": {Column: "project.is_compliance", Kind: query.KindBool},
	"retired":       {Column: "project.retired", Kind: query.KindNumber},
	"issued":        {Column: "project.issued", Kind: query.KindNumber},
	"project_url":   {Column: "project.project_url", Kind: query.KindText},
})

// Credit listings always join their project, so "name" resolves against the
// joined project row and search can span it.
var Credits = query.NewEntity("credit", "credit", "id", map[string]query.Attribute{
	"id":               {Column: "credit.id", Kind: query.KindNumber},
	"project_id":       {Column: "credit.project_id", Kind: query.KindText},
	"name":             {Column: "project.name", Kind: query.KindText},
	"quantity":         {Column: "credit.quantity", Kind: query.KindNumber},
	"vintage":          {Column: "credit.vintage", Kind: query.KindNumber},
	"transaction_date": {Column: "credit.transaction_date", Kind: query.KindDate},
	"transaction_type": {Column: "credit.transaction_type", Kind: query.KindText},
})

// Clip listings join the project association table, so the project_id filter
// targets it directly.
var Clips = query.NewEntity("clip", "clip", "id", map[string]query.Attribute{
	"id":           {Column: "clip.id", Kind: query.KindNumber},
	"project_id":   {Column: "clipproject.project_id", Kind: query.KindText},
	"date":         {Column: "clip.date", Kind: query.KindDate},
	"title":        {Column: "clip.title", Kind: query.KindText},
	"url":          {Column: "clip.url", Kind: query.KindText},
	"source":       {Column: "clip.source", Kind: query.KindText},
	"tags":         {Column: "clip.tags", Kind: query.KindTextArray},
	"notes":        {Column: "clip.notes", Kind: query.KindText},
	"is_waybacked": {Column: "clip.is_waybacked", Kind: query.KindBool},
	"type":         {Column: "clip.type", Kind: query.KindText},
})

var ClipProjects = query.NewEntity("clipproject", "clipproject", "id", map[string]query.Attribute{
	"id":         {Column: "clipproject.id", Kind: query.KindNumber},
	"clip_id":    {Column: "clipproject.clip_id", Kind: query.KindNumber},
	"project_id": {Column: "clipproject.project_id", Kind: query.KindText},
})

var Files = query.NewEntity("file", "file", "id", map[string]query.Attribute{
	"id":           {Column: "file.id", Kind: query.KindNumber},
	"url":          {Column: "file.url", Kind: query.KindText},
	"content_hash": {Column: "file.content_hash", Kind: query.KindText},
	"status":       {Column: "file.status", Kind: query.KindText},
	"error":        {Column: "file.error", Kind: query.KindText},
	"recorded_at":  {Column: "file.recorded_at", Kind: query.KindDate},
	"category":     {Column: "file.category", Kind: query.KindText},
})
