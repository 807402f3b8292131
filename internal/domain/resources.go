package domain

// CatalogResources are the plain CRUD resources served next to the exercise
// library. Field names and collections are the ones existing clients and
// data already use.
var CatalogResources = []CatalogResource{
	{
		Path:       "perfil-socio",
		Label:      "Member profile",
		Collection: "perfilsocios",
		Fields: []CatalogField{
			{Name: "nombre", Kind: FieldString},
			{Name: "descripcion", Kind: FieldString},
		},
		BulkKey: "perfilSocioIds",
	},
	{
		Path:       "socio",
		Label:      "Member",
		Collection: "socios",
		Fields: []CatalogField{
			{Name: "nombre", Kind: FieldString},
			{Name: "apellidos", Kind: FieldString},
			{Name: "fecha_inicio", Kind: FieldDate},
			{Name: "fecha_alta", Kind: FieldDate},
			{Name: "telefono", Kind: FieldString},
			{Name: "perfil_socio", Kind: FieldRef},
		},
		BulkKey: "socioIds",
	},
	{
		Path:       "perfil-empleado",
		Label:      "Employee profile",
		Collection: "perfilempleados",
		Fields: []CatalogField{
			{Name: "nombre", Kind: FieldString},
			{Name: "descripcion", Kind: FieldString},
		},
		BulkKey: "perfilEmpleadoIds",
	},
	{
		Path:       "empleado",
		Label:      "Employee",
		Collection: "empleados",
		Fields: []CatalogField{
			{Name: "nombre", Kind: FieldString},
			{Name: "apellidos", Kind: FieldString},
			{Name: "perfil", Kind: FieldString},
			{Name: "foto", Kind: FieldString},
			{Name: "fecha_alta", Kind: FieldDate},
			{Name: "fecha_inicio", Kind: FieldDate},
			{Name: "telefono", Kind: FieldString},
		},
		// dates and phone are read-only over the API
		Writable: []string{"nombre", "apellidos", "perfil", "foto"},
		BulkKey:  "empleadoIds",
	},
	{
		Path:       "actividades",
		Label:      "Activity",
		Collection: "actividades",
		Fields: []CatalogField{
			{Name: "imagen", Kind: FieldString},
			{Name: "actividades", Kind: FieldString},
			{Name: "tipo", Kind: FieldNumber},
			{Name: "grupo_actividad", Kind: FieldString},
		},
		BulkKey: "actividadIds",
	},
	{
		Path:       "grupo-actividad",
		Label:      "Activity group",
		Collection: "grupoactividads",
		Fields: []CatalogField{
			{Name: "imagen", Kind: FieldString},
			{Name: "nivel_esfuerzo", Kind: FieldString},
			{Name: "valor", Kind: FieldNumber},
		},
		BulkKey: "grupoActividadIds",
	},
	{
		Path:       "clases",
		Label:      "Class",
		Collection: "clases",
		Fields: []CatalogField{
			{Name: "imagen", Kind: FieldString},
			{Name: "titulo", Kind: FieldString},
			{Name: "tipo", Kind: FieldNumber},
			{Name: "idioma", Kind: FieldString},
		},
		BulkKey: "claseIds",
	},
	{
		Path:       "entrenamiento",
		Label:      "Training",
		Collection: "entrenamientos",
		Fields: []CatalogField{
			{Name: "imagen", Kind: FieldString},
			{Name: "nombre", Kind: FieldString},
			{Name: "semanas", Kind: FieldAny},
			{Name: "etiquetas", Kind: FieldAny},
			{Name: "empleado", Kind: FieldAny},
			{Name: "tipo", Kind: FieldAny},
		},
		BulkKey: "entrenamientoIds",
	},
	{
		Path:       "marketing",
		Label:      "Campaign",
		Collection: "marketings",
		Fields: []CatalogField{
			{Name: "campaña", Kind: FieldString},
			{Name: "descripcion", Kind: FieldString},
		},
		BulkKey: "marketingIds",
	},
	{
		Path:       "recompensa",
		Label:      "Reward",
		Collection: "recompensas",
		Fields: []CatalogField{
			{Name: "nombre", Kind: FieldString},
			{Name: "descripcion", Kind: FieldString},
		},
		BulkKey: "recompensaIds",
	},
	{
		Path:       "horario",
		Label:      "Schedule",
		Collection: "horarios",
		Fields: []CatalogField{
			{Name: "nombre", Kind: FieldString},
			{Name: "descripcion", Kind: FieldString},
			{Name: "hora_inicio", Kind: FieldString},
			{Name: "hora_fin", Kind: FieldString},
		},
		BulkKey: "horarioIds",
	},
}

// CatalogResourceByPath returns the resource mounted at path
func CatalogResourceByPath(path string) (CatalogResource, bool) {
	for _, r := range CatalogResources {
		if r.Path == path {
			return r, true
		}
	}
	return CatalogResource{}, false
}
