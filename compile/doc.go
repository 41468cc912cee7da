// Copyright (c) AgentFlow Authors.
// Licensed under the MIT License.

/*
Package compile 将可视化工作流编译为严格层级化的执行计划。

# 概述

compile 包是编译器核心：把按 Region 分组的节点/连线记录构建为类型化的
WorkflowGraph，解析跨页 Link 对，检测环并做拓扑排序，最终把允许分叉/汇合
的任务 DAG 合成为单亲树（Sequence / Parallel / Leaf），且不复制任何节点。
下游执行运行时只理解这种树状组合。

# 编译管线

	canvas.Flow → GraphBuilder → Graph → TopoSort（必须无环）
	            → Synthesizer → Plan 树
	            → Validator → ValidationResult（独立运行）

# 核心类型

  - Resolver      — 基于优先级规则表的连线语义解析（§数据驱动，非分支逻辑）
  - GraphBuilder  — 图构建器：端点解析、Link 配对、虚拟桥接边、入口节点
  - Graph         — 构建完成后对所有消费者只读
  - Synthesizer   — fork/join DAG → 严格树的合成器，携带一次性 visited 状态
  - Plan          — Leaf / Sequence / Parallel 标签联合输出树
  - Validator     — 结构与引用校验，fatal 累积、warning 永不中断
  - Compiler      — 门面：Build → Validate → Synthesize 一次调用完成

# 错误处理

GraphBuilder 快速失败（结构错误立即中止，不返回部分图）；Validator 慢速失败
（整轮收集进 ValidationResult，由调用方选择 strict / lenient）。向未通过环检
测的图执行合成属未定义行为，Compiler 门面总是先跑环检测。

编译是单线程、纯函数式的：无 I/O、无共享可变状态。Synthesizer 实例含一次
合成的 visited 集合，不可跨编译复用；Compiler 每次编译都新建实例。
*/
package compile
