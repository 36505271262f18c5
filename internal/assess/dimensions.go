package assess

// Dimension is one of the fixed capability/KPI axes a grid leader is scored
// on. Code doubles as the column name in the assessments table.
type Dimension struct {
	Code  string
	Label string
	Tips  []string
}

var Dimensions = []Dimension{
	{
		Code:  "professional_skill",
		Label: "专业技术能力",
		Tips:  []string{"加强专业技能培训", "参与技术交流活动", "考取相关专业证书"},
	},
	{
		Code:  "index_mastery",
		Label: "指标掌控能力",
		Tips:  []string{"深入理解业务指标体系", "定期分析指标数据", "制定针对性提升计划"},
	},
	{
		Code:  "management_execution",
		Label: "管理执行能力",
		Tips:  []string{"优化工作流程", "加强团队协作", "提高执行力和决策力"},
	},
	{
		Code:  "communication_coordination",
		Label: "沟通协调能力",
		Tips:  []string{"加强团队沟通", "提高跨部门协作能力", "提升客户沟通技巧"},
	},
	{
		Code:  "marketing_ability",
		Label: "市场营销能力",
		Tips:  []string{"学习市场营销知识", "分析市场趋势", "提高客户开发能力"},
	},
	{
		Code:  "long_work_order_ratio",
		Label: "超长工单占比",
		Tips:  []string{"优化工单处理流程", "提高工单处理效率", "加强工单跟踪管理"},
	},
	{
		Code:  "reminder_rate",
		Label: "催单率",
		Tips:  []string{"提高服务质量", "及时响应客户需求", "优化服务流程"},
	},
	{
		Code:  "on_site_timeliness",
		Label: "上门及时率",
		Tips:  []string{"合理安排上门服务时间", "加强服务人员管理", "提高服务效率"},
	},
	{
		Code:  "repeat_complaint_rate",
		Label: "重复投诉率",
		Tips:  []string{"提高问题解决能力", "加强服务质量监督", "建立客户反馈机制"},
	},
	{
		Code:  "complaints_per_ten_thousand",
		Label: "万投比",
		Tips:  []string{"提高服务质量", "加强客户关系管理", "优化服务流程"},
	},
	{
		Code:  "contact_service_satisfaction",
		Label: "触点服务客户满意占比",
		Tips:  []string{"提高服务态度", "加强服务技能培训", "建立客户反馈机制"},
	},
	{
		Code:  "poor_quality_customer_ratio",
		Label: "质差客户占比",
		Tips:  []string{"提高服务质量", "加强网络维护", "优化网络质量"},
	},
	{
		Code:  "home_broadband_interrupt_duration",
		Label: "家宽单用户中断时长",
		Tips:  []string{"加强网络维护", "提高故障处理效率", "优化网络结构"},
	},
	{
		Code:  "home_broadband_weak_light_rate",
		Label: "家宽弱光率",
		Tips:  []string{"加强线路维护", "优化光路质量", "提高设备性能"},
	},
	{
		Code:  "task_support_timeliness",
		Label: "任务工单支撑及时率",
		Tips:  []string{"加强团队协作", "提高工作效率", "优化任务分配"},
	},
	{
		Code:  "handover_rate",
		Label: "交班交底率",
		Tips:  []string{"建立规范的交接班制度", "加强交接班管理", "提高工作responsibility"},
	},
	{
		Code:  "terminal_inventory",
		Label: "终端盘点",
		Tips:  []string{"建立完善的终端管理制度", "定期进行终端盘点", "提高资产管理水平"},
	},
	{
		Code:  "personnel_qualified_rate",
		Label: "人员达标率",
		Tips:  []string{"加强人员培训", "建立考核机制", "提高人员素质"},
	},
	{
		Code:  "low_sales_ratio",
		Label: "低销占比",
		Tips:  []string{"加强市场调研", "优化产品结构", "提高销售能力"},
	},
	{
		Code:  "business_opportunity_conversion_rate",
		Label: "商机转化率",
		Tips:  []string{"加强市场分析", "优化销售策略", "提高销售技巧"},
	},
	{
		Code:  "yuanbao_completion_rate",
		Label: "元宝完成率",
		Tips:  []string{"明确目标任务", "制定合理计划", "加强过程管理"},
	},
	{
		Code:  "terminal_revenue",
		Label: "终端收入",
		Tips:  []string{"优化产品结构", "提高销售能力", "加强客户关系管理"},
	},
}

var dimensionByCode = func() map[string]Dimension {
	m := make(map[string]Dimension, len(Dimensions))
	for _, d := range Dimensions {
		m[d.Code] = d
	}
	return m
}()

// Codes returns the dimension codes in their canonical order.
func Codes() []string {
	codes := make([]string, len(Dimensions))
	for i, d := range Dimensions {
		codes[i] = d.Code
	}
	return codes
}

// ByCode looks a dimension up by its code.
func ByCode(code string) (Dimension, bool) {
	d, ok := dimensionByCode[code]
	return d, ok
}
